package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Investment is a tradable company.
type Investment struct {
	Ticker string `yaml:"ticker" json:"ticker"`
	Name   string `yaml:"name" json:"name"`
	// Price is the last known current price. None until the market data cache has been warmed.
	Price optional.Option[decimal.Decimal] `yaml:"-" json:"-"`
}

// NewInvestment creates an investment without a known price.
func NewInvestment(ticker string, name string) Investment {
	return Investment{
		Ticker: ticker,
		Name:   name,
		Price:  optional.None[decimal.Decimal](),
	}
}

// WithPrice returns a copy of the investment carrying the given price.
func (i Investment) WithPrice(price decimal.Decimal) Investment {
	i.Price = optional.Some(price)

	return i
}

// Pattern is an ordered rotation of company display names.
type Pattern []string

// At returns the company traded in the given 1-based week.
func (p Pattern) At(week int) string {
	return p[(week-1)%len(p)]
}

// Distinct returns the company names in first-seen order without repeats.
func (p Pattern) Distinct() []string {
	seen := make(map[string]struct{}, len(p))
	names := make([]string, 0, len(p))

	for _, name := range p {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}
