package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
)

// ErrEmailNotVerified is returned when no inbox row matches the sent email.
var ErrEmailNotVerified = errors.New("could not find and verify self-sent email within the timeout period")

// Inbox DOM contract.
const (
	inboxRowsXPath   = "//tbody[@id='email_list']/tr[contains(@class, 'mail_row')]"
	rowCheckboxXPath = ".//td[@class='td1']"
	rowSenderXPath   = ".//td[@class='td2']"
	rowPreviewXPath  = ".//td[@class='td3']"
)

// NormalizeSubject trims surrounding whitespace and removes embedded line breaks.
func NormalizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	return strings.NewReplacer("\n", "", "\r", "").Replace(subject)
}

// Expectation is what the self-sent email must look like in the inbox list.
type Expectation struct {
	Address string
	Domain  string
	Subject string
	Body    string
}

// InboxRow is the text of one inbox list entry.
type InboxRow struct {
	Sender string
	// Preview is the subject immediately followed by the start of the body.
	Preview string
}

// Matches reports whether sender, subject and body all agree with row.
//
// The body is compared against the list preview only, so bodies spanning
// several lines never match.
func (e Expectation) Matches(row InboxRow) bool {
	subject, body := splitPreview(row.Preview, runeLen(e.Subject), runeLen(e.Body))
	return rewriteSender(row.Sender, e.Domain) == e.Address &&
		subject == e.Subject &&
		body == e.Body
}

// splitPreview cuts the preview into a subject of subjectLen characters and
// the first bodyLen characters of the trimmed remainder.
func splitPreview(preview string, subjectLen, bodyLen int) (subject, body string) {
	text := []rune(strings.TrimSpace(preview))
	n := min(subjectLen, len(text))
	subject = string(text[:n])

	rest := []rune(strings.TrimSpace(string(text[n:])))
	body = string(rest[:min(bodyLen, len(rest))])
	return subject, body
}

// rewriteSender keeps the local part of sender and substitutes domain.
// The inbox shows the sender under the site's display domain, not the one
// the address was generated with.
func rewriteSender(sender, domain string) string {
	local, _, _ := strings.Cut(sender, "@")
	return local + "@" + domain
}

func runeLen(s string) int {
	return len([]rune(s))
}

// findMatchingRow scans the inbox list in order and returns the first row
// matching exp, or nil when none does.
func findMatchingRow(ctx context.Context, b driver.Browser, exp Expectation) (driver.Element, error) {
	rows, err := b.FindElements(ctx, driver.ByXPath, inboxRowsXPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	for _, row := range rows {
		inboxRow, err := readRow(row)
		if err != nil {
			return nil, err
		}
		if exp.Matches(inboxRow) {
			return row, nil
		}
	}
	return nil, nil
}

func readRow(row driver.Element) (InboxRow, error) {
	preview, err := cellText(row, rowPreviewXPath)
	if err != nil {
		return InboxRow{}, err
	}
	sender, err := cellText(row, rowSenderXPath)
	if err != nil {
		return InboxRow{}, err
	}
	return InboxRow{Sender: sender, Preview: preview}, nil
}

func cellText(row driver.Element, xpath string) (string, error) {
	cell, err := row.FindElement(driver.ByXPath, xpath)
	if err != nil {
		return "", err
	}
	return cell.Text()
}
