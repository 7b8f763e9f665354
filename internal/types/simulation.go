package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// TradePolicy selects how a simulation records trades and grows the invested amount.
type TradePolicy string

const (
	// TradePolicySingleTrade records one trade in week 1 and grows the amount with the
	// pattern's annualized return.
	TradePolicySingleTrade TradePolicy = "single_trade"
	// TradePolicyWeeklyTrade records a trade every week and grows the amount with each
	// symbol's average periodic gain.
	TradePolicyWeeklyTrade TradePolicy = "weekly_trade"
)

// AllTradePolicies lists the supported policies, used by schema generation and validation.
var AllTradePolicies = []any{string(TradePolicySingleTrade), string(TradePolicyWeeklyTrade)}

// IsValid reports whether the policy is one of the supported values.
func (p TradePolicy) IsValid() bool {
	return p == TradePolicySingleTrade || p == TradePolicyWeeklyTrade
}

// SimulationResult is the outcome of one (pattern, amount, time frame) run.
type SimulationResult struct {
	ID                   string          `yaml:"id"`
	PatternName          string          `yaml:"pattern"`
	Policy               TradePolicy     `yaml:"policy"`
	InitialAmount        decimal.Decimal `yaml:"initial_amount"`
	TimeFrame            TimeFrame       `yaml:"time_frame"`
	ExpectedAnnualReturn decimal.Decimal `yaml:"expected_annual_return"`
	FinalAmount          decimal.Decimal `yaml:"final_amount"`
	TotalGain            decimal.Decimal `yaml:"total_gain"`
	PercentageGain       decimal.Decimal `yaml:"percentage_gain"`
	Trades               []Trade         `yaml:"-"`
}

// Summary holds the best and worst performers across a result set.
type Summary struct {
	Best  SimulationResult
	Worst SimulationResult
}

// ResultSet is everything a batch produced. Summary is None when no run was executed.
type ResultSet struct {
	Results []SimulationResult
	Summary optional.Option[Summary]
}
