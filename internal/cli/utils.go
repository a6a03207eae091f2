package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shawn-b/GuerrillaMailTester/internal/config"
	"github.com/shawn-b/GuerrillaMailTester/internal/runner"
	"github.com/spf13/cobra"
)

// getOutput returns the output format with priority: flag > env > config > default.
func getOutput(cmd *cobra.Command) string {
	if flag := cmd.Flag("output"); flag != nil && flag.Changed {
		return flag.Value.String()
	}
	return config.GetDefaultOutput()
}

// outputJSON marshals v to indented JSON and prints it to w.
func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// runEntries converts effective cases back into config entries for display.
func runEntries(cases []runner.Case) []config.RunEntry {
	entries := make([]config.RunEntry, 0, len(cases))
	for _, c := range cases {
		entries = append(entries, config.RunEntry{
			Name:             c.Name,
			SiteName:         c.Config.SiteURL,
			WebDriver:        c.WebDriver,
			EmailSubject:     c.Config.EmailSubject,
			EmailBody:        c.Config.EmailBody,
			WaitForEmailTime: int(c.Config.WaitForEmail / time.Second),
		})
	}
	return entries
}
