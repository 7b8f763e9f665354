package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// FormatGain formats a percentage gain with an indicator for its direction.
func FormatGain(percentage decimal.Decimal) string {
	text := percentage.StringFixed(2) + "%"

	switch {
	case percentage.IsPositive():
		return text + " ▲"
	case percentage.IsNegative():
		return text + " ▼"
	default:
		return text
	}
}
