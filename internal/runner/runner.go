// Package runner drives the self-send email scenario against a disposable
// email site, one strictly ordered step at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
	"github.com/shawn-b/GuerrillaMailTester/internal/output"
	"github.com/shawn-b/GuerrillaMailTester/internal/report"
)

// Step names, in execution order.
const (
	StepInitialization = "Initialization"
	StepGoToSite       = "Go to site"
	StepGetAddress     = "Get email address"
	StepGoToCompose    = "Go to compose email"
	StepSetTo          = "Set 'To' field"
	StepSetSubject     = "Set 'Subject' field"
	StepSetBody        = "Set 'Body' field"
	StepSend           = "Send email"
	StepWait           = "Wait for email"
	StepVerify         = "Verify email"
	StepDelete         = "Delete email"
)

// Site DOM contract outside the inbox list.
const (
	addressWidgetID  = "email-widget"
	composeNavID     = "nav-item-compose"
	toFieldName      = "to"
	subjectFieldName = "subject"
	bodyFieldName    = "body"
	sendButtonID     = "send-button"
	deleteButtonID   = "del_button"
)

// Observer receives results as they are produced.
type Observer interface {
	ObserveStep(run string, step StepResult)
	ObserveRun(result Result)
}

// Runner executes runs and reports each step through a report.Logger.
type Runner struct {
	log        *report.Logger
	warn       io.Writer
	observer   Observer
	newBrowser BrowserFactory
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver registers an observer for step and run results.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithBrowserFactory sets the factory used when a RunConfig carries no browser.
func WithBrowserFactory(f BrowserFactory) Option {
	return func(r *Runner) { r.newBrowser = f }
}

// WithWarnings sets where cleanup problems are reported.
func WithWarnings(w io.Writer) Option {
	return func(r *Runner) { r.warn = w }
}

// New creates a Runner logging to log.
func New(log *report.Logger, opts ...Option) *Runner {
	r := &Runner{log: log, warn: io.Discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// runContext is the state shared by the steps of one run.
type runContext struct {
	cfg     RunConfig
	browser driver.Browser

	address  string
	domain   string
	verified driver.Element
}

func (rc *runContext) expectation() Expectation {
	return Expectation{
		Address: rc.address,
		Domain:  rc.domain,
		Subject: rc.cfg.EmailSubject,
		Body:    rc.cfg.EmailBody,
	}
}

type step struct {
	name string
	run  func(ctx context.Context, rc *runContext) (note string, err error)
}

var steps = []step{
	{StepGoToSite, goToSite},
	{StepGetAddress, getAddress},
	{StepGoToCompose, goToCompose},
	{StepSetTo, setTo},
	{StepSetSubject, setSubject},
	{StepSetBody, setBody},
	{StepSend, send},
	{StepWait, waitForEmail},
	{StepVerify, verifyEmail},
	{StepDelete, deleteEmail},
}

// Run executes all steps under cfg. The first failing step ends the run;
// failures are reported, never returned. The browser is always closed.
func (r *Runner) Run(ctx context.Context, cfg RunConfig, name string) (res Result) {
	if name == "" {
		name = "Test"
	}
	res = newResult(name)

	r.log.PrintRunTitle(name)
	r.log.PrintHeader()

	rc := &runContext{cfg: cfg.withDefaults()}
	defer func() {
		r.release(rc)
		res.Duration = time.Since(res.StartedAt)
		if r.observer != nil {
			r.observer.ObserveRun(res)
		}
	}()

	err := r.runStep(ctx, &res, StepInitialization, func(ctx context.Context) (string, error) {
		return "", r.openBrowser(ctx, rc)
	})
	for _, s := range steps {
		if err != nil {
			break
		}
		err = r.runStep(ctx, &res, s.name, func(ctx context.Context) (string, error) {
			return s.run(ctx, rc)
		})
	}

	res.Err = err
	if err != nil {
		r.log.PrintErrors(err)
	} else {
		r.log.PrintAllPassed()
	}
	return res
}

func (r *Runner) runStep(ctx context.Context, res *Result, name string, fn func(context.Context) (string, error)) error {
	r.log.PrintTestName(name)

	start := time.Now()
	note, err := call(ctx, fn)
	sr := StepResult{
		Name:     name,
		Status:   report.ResultPass,
		Duration: time.Since(start),
		Note:     note,
	}
	if err != nil {
		sr.Status = report.ResultFail
		sr.Err = err
	}

	res.Steps = append(res.Steps, sr)
	r.log.PrintTestResult(sr.Status)
	if r.observer != nil {
		r.observer.ObserveStep(res.Name, sr)
	}
	return err
}

// call runs fn, turning an interrupted context or a panic into an error.
func call(ctx context.Context, fn func(context.Context) (string, error)) (note string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("interrupted: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}

func (r *Runner) openBrowser(ctx context.Context, rc *runContext) error {
	if rc.cfg.Browser != nil {
		rc.browser = rc.cfg.Browser
		return nil
	}

	factory := rc.cfg.NewBrowser
	if factory == nil {
		factory = r.newBrowser
	}
	if factory == nil {
		return errors.New("no browser configured")
	}

	b, err := factory(ctx)
	if err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	rc.browser = b
	return nil
}

func (r *Runner) release(rc *runContext) {
	if rc.browser == nil {
		return
	}
	if err := rc.browser.Close(); err != nil {
		output.Warnf(r.warn, "failed to close browser: %v", err)
	}
	rc.browser = nil
}

func goToSite(ctx context.Context, rc *runContext) (string, error) {
	return "", rc.browser.Navigate(ctx, rc.cfg.SiteURL)
}

func getAddress(ctx context.Context, rc *runContext) (string, error) {
	el, err := rc.browser.FindElement(ctx, driver.ByID, addressWidgetID)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read email address: %w", err)
	}

	address := strings.TrimSpace(text)
	_, domain, ok := strings.Cut(address, "@")
	if !ok {
		return "", fmt.Errorf("generated address %q has no domain", address)
	}
	rc.address = address
	rc.domain = domain
	return address, nil
}

func goToCompose(ctx context.Context, rc *runContext) (string, error) {
	nav, err := rc.browser.FindElement(ctx, driver.ByID, composeNavID)
	if err != nil {
		return "", err
	}
	if err := nav.Click(); err != nil {
		return "", fmt.Errorf("failed to open compose view: %w", err)
	}
	_, err = rc.browser.WaitForElement(ctx, driver.ByName, toFieldName, rc.cfg.ComposeTimeout)
	return "", err
}

func setTo(ctx context.Context, rc *runContext) (string, error) {
	return "", fillField(ctx, rc.browser, toFieldName, rc.address)
}

func setSubject(ctx context.Context, rc *runContext) (string, error) {
	return "", fillField(ctx, rc.browser, subjectFieldName, rc.cfg.EmailSubject)
}

func setBody(ctx context.Context, rc *runContext) (string, error) {
	return "", fillField(ctx, rc.browser, bodyFieldName, rc.cfg.EmailBody)
}

func fillField(ctx context.Context, b driver.Browser, name, value string) error {
	field, err := b.FindElement(ctx, driver.ByName, name)
	if err != nil {
		return err
	}
	if err := field.Clear(); err != nil {
		return fmt.Errorf("failed to clear %q field: %w", name, err)
	}
	if err := field.SendKeys(value); err != nil {
		return fmt.Errorf("failed to fill %q field: %w", name, err)
	}
	return nil
}

func send(ctx context.Context, rc *runContext) (string, error) {
	btn, err := rc.browser.FindElement(ctx, driver.ByID, sendButtonID)
	if err != nil {
		return "", err
	}
	if err := btn.Click(); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return "", nil
}

func waitForEmail(ctx context.Context, rc *runContext) (string, error) {
	start := time.Now()
	delivered, err := waitForDelivery(ctx, rc.browser, rc.expectation(), rc.cfg.PollInterval, rc.cfg.WaitForEmail)
	if err != nil {
		return "", err
	}
	if !delivered {
		return fmt.Sprintf("not delivered within %s", rc.cfg.WaitForEmail), nil
	}
	return fmt.Sprintf("delivered after %s", time.Since(start).Round(time.Millisecond)), nil
}

func verifyEmail(ctx context.Context, rc *runContext) (string, error) {
	row, err := findMatchingRow(ctx, rc.browser, rc.expectation())
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", ErrEmailNotVerified
	}
	rc.verified = row
	return "", nil
}

func deleteEmail(ctx context.Context, rc *runContext) (string, error) {
	checkbox, err := rc.verified.FindElement(driver.ByXPath, rowCheckboxXPath)
	if err != nil {
		return "", err
	}
	if err := checkbox.Click(); err != nil {
		return "", fmt.Errorf("failed to select email: %w", err)
	}

	del, err := rc.browser.FindElement(ctx, driver.ByID, deleteButtonID)
	if err != nil {
		return "", err
	}
	if err := del.Click(); err != nil {
		return "", fmt.Errorf("failed to delete email: %w", err)
	}
	return "", nil
}
