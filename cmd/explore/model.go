package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// Application states.
const (
	StateRunning = iota
	StateResults
	StateTrades
	StateError
)

// RunFunc executes a simulation batch.
type RunFunc func(ctx context.Context) (types.ResultSet, error)

// Model is the main Bubble Tea model for the result browser.
type Model struct {
	state        int
	run          RunFunc
	resultsTable table.Model
	tradesTable  table.Model
	resultSet    types.ResultSet
	selected     int
	err          error
	width        int
	height       int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates a Model that starts by executing run.
func NewModel(run RunFunc) Model {
	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateRunning,
		run:          run,
		resultsTable: NewResultsTable(),
		tradesTable:  NewTradesTable(),
		selected:     -1,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.runSimulation()
}

// runSimulation returns a command that runs the batch and reports its outcome.
func (m Model) runSimulation() tea.Cmd {
	run, ctx := m.run, m.ctx

	return func() tea.Msg {
		resultSet, err := run(ctx)
		if err != nil {
			return RunErrorMsg{Err: err}
		}

		return ResultsMsg{ResultSet: resultSet}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()

			return m, tea.Quit
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resultsTable.SetWidth(msg.Width)
		m.resultsTable.SetHeight(msg.Height - 8)
		m.tradesTable.SetWidth(msg.Width)
		m.tradesTable.SetHeight(msg.Height - 6)

		return m, nil

	case ResultsMsg:
		m.resultSet = msg.ResultSet
		m.resultsTable = UpdateResultRows(m.resultsTable, msg.ResultSet.Results)
		m.state = StateResults

		return m, nil

	case RunErrorMsg:
		m.err = msg.Err
		m.state = StateError

		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateResults:
		return m.updateResults(msg)
	case StateTrades:
		return m.updateTrades(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == StateTrades {
		m.selected = -1
		m.state = StateResults
	}

	return m, nil
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		cursor := m.resultsTable.Cursor()
		if cursor >= 0 && cursor < len(m.resultSet.Results) {
			m.selected = cursor
			m.tradesTable = UpdateTradeRows(m.tradesTable, m.resultSet.Results[cursor].Trades)
			m.state = StateTrades
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.resultsTable, cmd = m.resultsTable.Update(msg)

	return m, cmd
}

func (m Model) updateTrades(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.tradesTable, cmd = m.tradesTable.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateRunning:
		s.WriteString(TitleStyle.Render("Argo Rotation - Simulation"))
		s.WriteString("\n\n")
		s.WriteString("Fetching market data and running simulations...\n\n")
		s.WriteString(HelpStyle.Render("q: quit"))

	case StateError:
		s.WriteString(TitleStyle.Render("Argo Rotation - Simulation"))
		s.WriteString("\n\n")
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render("q: quit"))

	case StateResults:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Simulation Results (%d runs)", len(m.resultSet.Results))))
		s.WriteString("\n\n")

		if len(m.resultSet.Results) == 0 {
			s.WriteString("No patterns were selected to run.\n")
		} else {
			s.WriteString(m.resultsTable.View())
			s.WriteString("\n")
		}

		if m.resultSet.Summary.IsSome() {
			summary := m.resultSet.Summary.Unwrap()
			s.WriteString(fmt.Sprintf("\nBest: %s %s | Worst: %s %s\n",
				summary.Best.PatternName, FormatGain(summary.Best.PercentageGain),
				summary.Worst.PatternName, FormatGain(summary.Worst.PercentageGain)))
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Enter: trade ledger | q: quit"))

	case StateTrades:
		result := m.resultSet.Results[m.selected]

		s.WriteString(TitleStyle.Render(fmt.Sprintf("Trade Ledger - %s, %s over %s",
			result.PatternName, result.InitialAmount.StringFixed(2), result.TimeFrame.String())))
		s.WriteString("\n\n")
		s.WriteString(m.tradesTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: back | q: quit"))
	}

	return s.String()
}
