package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// SampleTrades is how many trades of each run the text report lists.
const SampleTrades = 5

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	gainStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dividerStyle = lipgloss.NewStyle().Faint(true)
)

// RenderText formats every result and the best/worst summary for a terminal.
func RenderText(resultSet types.ResultSet) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("=== STOCK SIMULATION RESULTS ==="))
	b.WriteString("\n\n")

	for _, result := range resultSet.Results {
		writeResult(&b, result)
	}

	if resultSet.Summary.IsSome() {
		summary := resultSet.Summary.Unwrap()

		b.WriteString("\n")
		b.WriteString(titleStyle.Render("=== SUMMARY ==="))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s %s with %s gain\n", labelStyle.Render("Best Performance:"), summary.Best.PatternName, formatPercentage(summary.Best))
		fmt.Fprintf(&b, "%s %s with %s gain\n", labelStyle.Render("Worst Performance:"), summary.Worst.PatternName, formatPercentage(summary.Worst))
	}

	return b.String()
}

func writeResult(b *strings.Builder, result types.SimulationResult) {
	writeField(b, "Pattern:", result.PatternName)
	writeField(b, "Policy:", string(result.Policy))
	writeField(b, "Initial Investment:", "$"+result.InitialAmount.StringFixed(2))
	writeField(b, "Time Frame:", FormatTimeFrame(result.TimeFrame))
	writeField(b, "Expected Annual Return:", result.ExpectedAnnualReturn.Shift(2).StringFixed(2)+"%")
	writeField(b, "Final Amount:", "$"+result.FinalAmount.StringFixed(2))
	writeField(b, "Total Gain:", "$"+result.TotalGain.StringFixed(2))
	writeField(b, "Percentage Gain:", formatPercentage(result))
	writeField(b, "Number of Trades:", fmt.Sprintf("%d", len(result.Trades)))

	if len(result.Trades) > 0 {
		b.WriteString(labelStyle.Render("Sample Trades:"))
		b.WriteString("\n")

		for _, trade := range result.Trades[:min(SampleTrades, len(result.Trades))] {
			fmt.Fprintf(b, "  Week %d: %s @ $%s (%s shares)\n",
				trade.Week, trade.Company, trade.Price.StringFixed(2), trade.SharesBought.StringFixed(4))
		}

		if remaining := len(result.Trades) - SampleTrades; remaining > 0 {
			fmt.Fprintf(b, "  ... and %d more trades\n", remaining)
		}
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("-", 50)))
	b.WriteString("\n")
}

func writeField(b *strings.Builder, label string, value string) {
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render(label), value)
}

// FormatTimeFrame renders a horizon in words, e.g. "10 days".
func FormatTimeFrame(timeFrame types.TimeFrame) string {
	unit := string(timeFrame.Unit)
	if timeFrame.Duration == 1 {
		unit = strings.TrimSuffix(unit, "s")
	}

	return fmt.Sprintf("%d %s", timeFrame.Duration, unit)
}

func formatPercentage(result types.SimulationResult) string {
	text := result.PercentageGain.StringFixed(2) + "%"

	switch {
	case result.PercentageGain.IsPositive():
		return gainStyle.Render(text)
	case result.PercentageGain.IsNegative():
		return lossStyle.Render(text)
	default:
		return text
	}
}
