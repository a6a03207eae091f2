package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StepSummary is the printable outcome of one step.
type StepSummary struct {
	Name     string
	Result   string
	Duration time.Duration
	Error    string
	Note     string
}

// RunSummary is the printable outcome of one run.
type RunSummary struct {
	ID         string
	Name       string
	Passed     bool
	FailedStep string
	StartedAt  time.Time
	Duration   time.Duration
	Error      string
	Steps      []StepSummary
}

// Result returns PASS or FAIL for the run.
func (s RunSummary) Result() string {
	if s.Passed {
		return ResultPass
	}
	return ResultFail
}

// WriteSummaryTable renders all runs as a table.
func WriteSummaryTable(w io.Writer, runs []RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Suite Summary")

	t.AppendHeader(table.Row{"Run", "ID", "Result", "Failed Step", "Duration", "Started"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Run", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
	})

	passed := 0
	for _, run := range runs {
		if run.Passed {
			passed++
		}
		t.AppendRow(table.Row{
			run.Name,
			shortID(run.ID),
			run.Result(),
			run.FailedStep,
			run.Duration.Round(time.Millisecond),
			humanize.Time(run.StartedAt),
		})
	}

	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d passed", passed, len(runs)), "", "", ""})
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}

// WriteSummaryJSON writes all runs as an indented JSON array.
func WriteSummaryJSON(w io.Writer, runs []RunSummary) error {
	out := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		out = append(out, runJSON(run))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func runJSON(run RunSummary) map[string]interface{} {
	steps := make([]map[string]interface{}, 0, len(run.Steps))
	for _, s := range run.Steps {
		m := map[string]interface{}{
			"name":       s.Name,
			"result":     s.Result,
			"durationMs": s.Duration.Milliseconds(),
		}
		if s.Error != "" {
			m["error"] = s.Error
		}
		if s.Note != "" {
			m["note"] = s.Note
		}
		steps = append(steps, m)
	}

	m := map[string]interface{}{
		"id":         run.ID,
		"name":       run.Name,
		"result":     run.Result(),
		"startedAt":  run.StartedAt.Format(time.RFC3339),
		"durationMs": run.Duration.Milliseconds(),
		"steps":      steps,
	}
	if run.FailedStep != "" {
		m["failedStep"] = run.FailedStep
	}
	if run.Error != "" {
		m["error"] = run.Error
	}
	return m
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
