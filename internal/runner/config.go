package runner

import (
	"context"
	"time"

	"github.com/shawn-b/GuerrillaMailTester/internal/driver"
)

// Defaults applied to fields left empty in a RunConfig.
const (
	DefaultSiteURL        = "https://www.guerrillamail.com/"
	DefaultEmailSubject   = "Email Subject"
	DefaultEmailBody      = "Email body."
	DefaultWaitForEmail   = 30 * time.Second
	DefaultComposeTimeout = 10 * time.Second
	DefaultPollInterval   = time.Second
)

// BrowserFactory opens a new browser for a run.
type BrowserFactory func(ctx context.Context) (driver.Browser, error)

// RunConfig holds the settings of a single run.
type RunConfig struct {
	SiteURL string

	// Browser is used as-is when set; otherwise NewBrowser (or the runner's
	// default factory) opens one. Either way the run closes it when done.
	Browser    driver.Browser
	NewBrowser BrowserFactory

	EmailSubject string
	EmailBody    string

	// WaitForEmail bounds how long the inbox is polled for the sent email.
	WaitForEmail   time.Duration
	ComposeTimeout time.Duration
	PollInterval   time.Duration
}

// withDefaults returns a copy with defaults filled in and the subject normalized.
func (c RunConfig) withDefaults() RunConfig {
	if c.SiteURL == "" {
		c.SiteURL = DefaultSiteURL
	}
	c.EmailSubject = NormalizeSubject(c.EmailSubject)
	if c.EmailSubject == "" {
		c.EmailSubject = DefaultEmailSubject
	}
	if c.EmailBody == "" {
		c.EmailBody = DefaultEmailBody
	}
	if c.WaitForEmail <= 0 {
		c.WaitForEmail = DefaultWaitForEmail
	}
	if c.ComposeTimeout <= 0 {
		c.ComposeTimeout = DefaultComposeTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}
