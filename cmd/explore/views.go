package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-rotation/internal/report"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// NewResultsTable creates the table listing one row per simulation run.
func NewResultsTable() table.Model {
	return newTable([]table.Column{
		{Title: "Pattern", Width: 14},
		{Title: "Policy", Width: 13},
		{Title: "Amount", Width: 12},
		{Title: "Horizon", Width: 10},
		{Title: "Final", Width: 14},
		{Title: "Gain", Width: 14},
		{Title: "Trades", Width: 7},
	})
}

// NewTradesTable creates the table listing the trade ledger of one run.
func NewTradesTable() table.Model {
	return newTable([]table.Column{
		{Title: "Week", Width: 6},
		{Title: "Company", Width: 20},
		{Title: "Symbol", Width: 8},
		{Title: "Price", Width: 12},
		{Title: "Shares", Width: 14},
		{Title: "Invested", Width: 14},
	})
}

// UpdateResultRows fills the results table in run order.
func UpdateResultRows(t table.Model, results []types.SimulationResult) table.Model {
	rows := make([]table.Row, 0, len(results))

	for _, result := range results {
		rows = append(rows, table.Row{
			result.PatternName,
			string(result.Policy),
			result.InitialAmount.StringFixed(2),
			report.FormatTimeFrame(result.TimeFrame),
			result.FinalAmount.StringFixed(2),
			FormatGain(result.PercentageGain),
			fmt.Sprintf("%d", len(result.Trades)),
		})
	}

	t.SetRows(rows)

	return t
}

// UpdateTradeRows fills the trades table with the ledger of one run.
func UpdateTradeRows(t table.Model, trades []types.Trade) table.Model {
	rows := make([]table.Row, 0, len(trades))

	for _, trade := range trades {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", trade.Week),
			trade.Company,
			trade.Symbol,
			trade.Price.StringFixed(2),
			trade.SharesBought.StringFixed(4),
			trade.AmountInvested.StringFixed(2),
		})
	}

	t.SetRows(rows)
	t.GotoTop()

	return t
}
