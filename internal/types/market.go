package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoricalPrice is one daily close of a symbol.
type HistoricalPrice struct {
	Date   time.Time       `yaml:"date" json:"date"`
	Close  decimal.Decimal `yaml:"close" json:"close"`
	Volume uint64          `yaml:"volume" json:"volume"`
}

// StockData is a cached market snapshot for one symbol.
// It is replaced wholesale on refresh and never mutated in place.
type StockData struct {
	Symbol           string            `yaml:"symbol" json:"symbol"`
	CurrentPrice     decimal.Decimal   `yaml:"current_price" json:"current_price"`
	HistoricalPrices []HistoricalPrice `yaml:"historical_prices" json:"historical_prices"`
	FetchedAt        time.Time         `yaml:"fetched_at" json:"fetched_at"`
}

// Clone returns a copy that shares no memory with the receiver.
func (s StockData) Clone() StockData {
	clone := s
	if s.HistoricalPrices != nil {
		clone.HistoricalPrices = make([]HistoricalPrice, len(s.HistoricalPrices))
		copy(clone.HistoricalPrices, s.HistoricalPrices)
	}

	return clone
}

// Age reports how long ago the snapshot was fetched, relative to now.
func (s StockData) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
