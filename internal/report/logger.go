// Package report prints step results while a run executes and summarizes
// all runs once the suite is finished.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shawn-b/GuerrillaMailTester/internal/styles"
)

// Result values printed in the result column.
const (
	ResultPass = "PASS"
	ResultFail = "FAIL"
)

// Default column widths.
const (
	DefaultNameWidth   = 35
	DefaultResultWidth = 10
)

const titleRuleWidth = 60

// Column defines a table column with a header and width.
type Column struct {
	Header string
	Width  int
}

// Logger prints a two column step/result table.
type Logger struct {
	w       io.Writer
	Columns [2]Column
	// Styled enables lipgloss colors for headers and results.
	Styled bool
}

// NewLogger creates a logger writing to w. Non-positive widths fall back to
// the defaults.
func NewLogger(w io.Writer, nameWidth, resultWidth int) *Logger {
	if nameWidth <= 0 {
		nameWidth = DefaultNameWidth
	}
	if resultWidth <= 0 {
		resultWidth = DefaultResultWidth
	}
	return &Logger{
		w: w,
		Columns: [2]Column{
			{Header: "Test", Width: nameWidth},
			{Header: "Result", Width: resultWidth},
		},
	}
}

// TotalWidth is the sum of all column widths.
func (l *Logger) TotalWidth() int {
	total := 0
	for _, col := range l.Columns {
		total += col.Width
	}
	return total
}

// PrintRunTitle prints the banner that opens a run.
func (l *Logger) PrintRunTitle(name string) {
	if l.Styled {
		name = styles.TitleStyle.Render(name)
	}
	fmt.Fprintf(l.w, "\n%s\n%s\n", strings.Repeat("#", titleRuleWidth), name)
}

// PrintSeparator prints c repeated across the total column width.
func (l *Logger) PrintSeparator(c rune) {
	line := strings.Repeat(string(c), l.TotalWidth())
	if l.Styled {
		line = styles.MutedStyle.Render(line)
	}
	fmt.Fprintln(l.w, line)
}

// PrintHeader prints the column names followed by a '=' separator.
func (l *Logger) PrintHeader() {
	var b strings.Builder
	for _, col := range l.Columns {
		cell := pad(col.Header, col.Width)
		if l.Styled {
			cell = styles.HeaderStyle.Render(cell)
		}
		b.WriteString(cell)
	}

	fmt.Fprintln(l.w)
	fmt.Fprintln(l.w, b.String())
	l.PrintSeparator('=')
}

// PrintTestName prints a padded step name without a trailing newline and
// flushes the writer so the name is visible while the step runs.
func (l *Logger) PrintTestName(name string) {
	fmt.Fprint(l.w, pad(name, l.Columns[0].Width))
	l.flush()
}

// PrintTestResult prints a padded result value and ends the row.
func (l *Logger) PrintTestResult(result string) {
	cell := pad(result, l.Columns[1].Width)
	if l.Styled {
		cell = styles.ResultStyle(result).Render(cell)
	}
	fmt.Fprintln(l.w, cell)
}

// PrintErrors prints the error block that follows a failed step.
func (l *Logger) PrintErrors(err error) {
	fmt.Fprintln(l.w, "\nErrors:")
	l.PrintSeparator('=')
	msg := err.Error()
	if l.Styled {
		msg = styles.FailStyle.Render(msg)
	}
	fmt.Fprintln(l.w, msg)
}

// PrintAllPassed prints the closing line of a fully passing run.
func (l *Logger) PrintAllPassed() {
	msg := "All tests passed."
	if l.Styled {
		msg = styles.PassStyle.Render(msg)
	}
	fmt.Fprintf(l.w, "\n%s\n\n", msg)
}

func (l *Logger) flush() {
	if w, ok := l.w.(interface{ Flush() error }); ok {
		_ = w.Flush()
	}
}

// pad left-aligns s in a field of width characters. Longer values are kept whole.
func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
