package output

import (
	"fmt"
	"io"

	"github.com/shawn-b/GuerrillaMailTester/internal/styles"
)

// PrintSuccess formats a success message with checkmark
func PrintSuccess(msg string) string {
	return styles.PassStyle.Render("✓ " + msg)
}

// PrintError formats an error message
func PrintError(msg string) string {
	return styles.FailStyle.Render("✗ " + msg)
}

// PrintWarning formats a warning message
func PrintWarning(msg string) string {
	return styles.WarnStyle.Render("! " + msg)
}

// PrintInfo formats an info message
func PrintInfo(msg string) string {
	return styles.MutedStyle.Render("• " + msg)
}

// Infof writes a formatted info line to w.
func Infof(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, PrintInfo(fmt.Sprintf(format, args...)))
}

// Warnf writes a formatted warning line to w.
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, PrintWarning(fmt.Sprintf(format, args...)))
}
