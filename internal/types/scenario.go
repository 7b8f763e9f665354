package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Scenario is a parsed scenario description: what to invest, for how long,
// in which companies, and which patterns to run.
type Scenario struct {
	InvestAmounts []decimal.Decimal
	TimeFrames    []TimeFrame
	// Investments is keyed by ticker symbol.
	Investments map[string]Investment
	Patterns    map[string]Pattern
	// Tests lists the pattern names selected to run, in order.
	Tests []string
}

// NewScenario returns an empty scenario with initialized maps.
func NewScenario() Scenario {
	return Scenario{
		InvestAmounts: nil,
		TimeFrames:    nil,
		Investments:   make(map[string]Investment),
		Patterns:      make(map[string]Pattern),
		Tests:         nil,
	}
}

// SortedTickers returns the investment tickers in lexical order.
func (s Scenario) SortedTickers() []string {
	tickers := make([]string, 0, len(s.Investments))
	for ticker := range s.Investments {
		tickers = append(tickers, ticker)
	}

	sort.Strings(tickers)

	return tickers
}

// InvestmentByName finds the investment with the given display name.
// When several tickers share a name the lexically smallest ticker wins.
func (s Scenario) InvestmentByName(name string) (Investment, bool) {
	for _, ticker := range s.SortedTickers() {
		if investment := s.Investments[ticker]; investment.Name == name {
			return investment, true
		}
	}

	return Investment{}, false
}
