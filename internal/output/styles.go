package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: variant names, node names, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for wired steps.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for ineligible (dormant) steps.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for failed nodes.
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// Step and node status strings.
const (
	StatusWired         = "wired"
	StatusIneligible    = "ineligible"
	StatusNotConsidered = "not-considered"
	StatusSucceeded     = "succeeded"
	StatusFailed        = "failed"
	StatusSkipped       = "skipped"
)

// StatusStyle returns the style for a status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusWired, StatusSucceeded:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusIneligible:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusNotConsidered, StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
