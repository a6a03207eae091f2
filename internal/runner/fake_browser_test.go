package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
)

// fakeSite is an in-memory stand-in for the disposable email site.
type fakeSite struct {
	// address shown in the widget; empty means the page has no widget.
	address string
	// displayDomain is the domain the inbox shows senders under.
	displayDomain string
	// composeBroken keeps the recipient field from ever appearing.
	composeBroken bool
	// deliverAfter is the number of inbox listings before a sent email
	// shows up; negative means never.
	deliverAfter int
	// deliverAt, when set, delivers sent emails on the first listing at or
	// after that time.
	deliverAt time.Time
	// panicOn makes the named lookup panic.
	panicOn string

	inbox       []*fakeRow
	sent        []sentEmail
	listings    int
	navigations []string
	closed      int

	composeOpen bool
	fields      map[string]string
}

type sentEmail struct {
	to, subject, body string
}

type fakeRow struct {
	sender   string
	preview  string
	selected bool
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		address:       "qwerty@sharklasers.com",
		displayDomain: "guerrillamail.com",
		fields:        map[string]string{},
	}
}

func (s *fakeSite) factory() BrowserFactory {
	return func(ctx context.Context) (driver.Browser, error) {
		return &fakeBrowser{site: s}, nil
	}
}

type fakeBrowser struct {
	site *fakeSite
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.site.navigations = append(b.site.navigations, url)
	return nil
}

func (b *fakeBrowser) FindElement(ctx context.Context, by driver.By, value string) (driver.Element, error) {
	s := b.site
	key := by.String() + "=" + value
	if s.panicOn == key {
		panic("lookup exploded")
	}

	switch key {
	case "id=email-widget":
		if s.address != "" {
			return &fakeElement{text: s.address}, nil
		}
	case "id=nav-item-compose":
		return &fakeElement{onClick: func() { s.composeOpen = !s.composeBroken }}, nil
	case "name=to", "name=subject", "name=body":
		if s.composeOpen {
			return &fakeElement{field: value, site: s}, nil
		}
	case "id=send-button":
		if s.composeOpen {
			return &fakeElement{onClick: s.send}, nil
		}
	case "id=del_button":
		return &fakeElement{onClick: s.deleteSelected}, nil
	}
	return nil, &driver.NotFoundError{By: by, Value: value}
}

func (b *fakeBrowser) FindElements(ctx context.Context, by driver.By, value string) ([]driver.Element, error) {
	s := b.site
	if by != driver.ByXPath || value != inboxRowsXPath {
		return nil, nil
	}

	s.listings++
	switch {
	case !s.deliverAt.IsZero():
		if !time.Now().Before(s.deliverAt) {
			s.deliver()
		}
	case s.deliverAfter >= 0 && s.listings > s.deliverAfter:
		s.deliver()
	}

	els := make([]driver.Element, 0, len(s.inbox))
	for _, row := range s.inbox {
		els = append(els, rowElement(row))
	}
	return els, nil
}

func (b *fakeBrowser) WaitForElement(ctx context.Context, by driver.By, value string, timeout time.Duration) (driver.Element, error) {
	el, err := b.FindElement(ctx, by, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q after %s", driver.ErrWaitTimeout, by, value, timeout)
	}
	return el, nil
}

func (b *fakeBrowser) Close() error {
	b.site.closed++
	return nil
}

func (s *fakeSite) send() {
	s.sent = append(s.sent, sentEmail{
		to:      s.fields["to"],
		subject: s.fields["subject"],
		body:    s.fields["body"],
	})
}

// deliver moves sent emails into the inbox the way the site lists them:
// newest first, sender under the display domain, body collapsed to one line.
func (s *fakeSite) deliver() {
	for _, e := range s.sent {
		local, _, _ := strings.Cut(e.to, "@")
		row := &fakeRow{
			sender:  local + "@" + s.displayDomain,
			preview: e.subject + " " + strings.Join(strings.Fields(e.body), " "),
		}
		s.inbox = append([]*fakeRow{row}, s.inbox...)
	}
	s.sent = nil
}

func (s *fakeSite) deleteSelected() {
	kept := s.inbox[:0]
	for _, row := range s.inbox {
		if !row.selected {
			kept = append(kept, row)
		}
	}
	s.inbox = kept
}

func rowElement(row *fakeRow) *fakeElement {
	return &fakeElement{children: map[string]*fakeElement{
		rowCheckboxXPath: {onClick: func() { row.selected = true }},
		rowSenderXPath:   {text: row.sender},
		rowPreviewXPath:  {text: row.preview},
	}}
}

type fakeElement struct {
	text     string
	onClick  func()
	children map[string]*fakeElement

	// form field backing
	field string
	site  *fakeSite
}

func (e *fakeElement) Text() (string, error) {
	if e.site != nil {
		return e.site.fields[e.field], nil
	}
	return e.text, nil
}

func (e *fakeElement) Click() error {
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Clear() error {
	if e.site != nil {
		e.site.fields[e.field] = ""
	}
	return nil
}

func (e *fakeElement) SendKeys(text string) error {
	if e.site != nil {
		e.site.fields[e.field] += text
	}
	return nil
}

func (e *fakeElement) FindElement(by driver.By, value string) (driver.Element, error) {
	if child, ok := e.children[value]; ok {
		return child, nil
	}
	return nil, &driver.NotFoundError{By: by, Value: value}
}

func (e *fakeElement) FindElements(by driver.By, value string) ([]driver.Element, error) {
	if child, ok := e.children[value]; ok {
		return []driver.Element{child}, nil
	}
	return nil, nil
}
