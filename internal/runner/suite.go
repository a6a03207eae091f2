package runner

import (
	"context"
	"time"
)

// Case is one named run of a suite.
type Case struct {
	Name string
	// WebDriver names the browser kind; empty uses the runner default.
	WebDriver string
	Config    RunConfig
	// ExpectPass documents whether the case is meant to pass. It does not
	// change how the case is run.
	ExpectPass bool
}

// DefaultSuite returns the built-in cases run when none are configured.
func DefaultSuite() []Case {
	const (
		subject = "This is a test email subject!!!"
		body    = "This is a test email body!!!"
		wait    = 25 * time.Second
	)

	return []Case{
		{
			Name:       "Test #1: Default Values",
			ExpectPass: true,
		},
		{
			Name: "Test #2: All Valid Values",
			Config: RunConfig{
				SiteURL:      DefaultSiteURL,
				EmailSubject: subject,
				EmailBody:    body,
				WaitForEmail: wait,
			},
			ExpectPass: true,
		},
		{
			Name: "Test #3: Invalid Site URL",
			Config: RunConfig{
				SiteURL:      "https://www.guerrrillamail.com/",
				EmailSubject: subject,
				EmailBody:    "This is a test email body!!",
				WaitForEmail: wait,
			},
		},
		{
			Name: "Test #5: Email Subject With Extra Whitespace",
			Config: RunConfig{
				SiteURL:      DefaultSiteURL,
				EmailSubject: "  This is a test\n email subject!!!   ",
				EmailBody:    body,
				WaitForEmail: wait,
			},
			ExpectPass: true,
		},
		{
			Name: "Test #6: Multi-Line Email Body",
			Config: RunConfig{
				SiteURL:      DefaultSiteURL,
				EmailSubject: subject,
				EmailBody:    "This is a test email body!!!\n\n\nThis is the fourth line!",
				WaitForEmail: wait,
			},
		},
		{
			Name: "Test #7: Short Wait For Email Period (5 sec)",
			Config: RunConfig{
				SiteURL:      DefaultSiteURL,
				EmailSubject: subject,
				EmailBody:    body,
				WaitForEmail: 5 * time.Second,
			},
		},
	}
}

// RunSuite runs cases one after another. It stops early only when ctx is
// cancelled; results of the runs that started are returned.
func (r *Runner) RunSuite(ctx context.Context, cases []Case, factoryFor func(webDriver string) BrowserFactory) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			break
		}
		cfg := c.Config
		if cfg.Browser == nil && cfg.NewBrowser == nil && factoryFor != nil {
			cfg.NewBrowser = factoryFor(c.WebDriver)
		}
		results = append(results, r.Run(ctx, cfg, c.Name))
	}
	return results
}
