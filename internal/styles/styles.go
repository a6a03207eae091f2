package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary = lipgloss.Color("#1cc2e3")
	Green   = lipgloss.Color("#10B981")
	Red     = lipgloss.Color("#EF4444")
	Yellow  = lipgloss.Color("#F59E0B")
	Gray    = lipgloss.Color("#6B7280")

	// Run title
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Table header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Secondary text (separators, hints)
	MutedStyle = lipgloss.NewStyle().
			Foreground(Gray)

	// Common result styles
	PassStyle = lipgloss.NewStyle().Bold(true).Foreground(Green)
	FailStyle = lipgloss.NewStyle().Bold(true).Foreground(Red)
	WarnStyle = lipgloss.NewStyle().Bold(true).Foreground(Yellow)

	// Label style for key-value displays
	LabelStyle = lipgloss.NewStyle().Foreground(Gray).Width(20)
)

// ResultStyle returns the style for a step result value.
func ResultStyle(result string) lipgloss.Style {
	switch strings.ToUpper(strings.TrimSpace(result)) {
	case "PASS":
		return PassStyle
	case "FAIL":
		return FailStyle
	default:
		return WarnStyle
	}
}
