package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/shopspring/decimal"
)

// DataGenerator generates daily price histories for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how a history is generated.
type GeneratorConfig struct {
	// Symbol is the ticker the generated StockData is stamped with
	Symbol string
	// StartTime is the date of the first close
	StartTime time.Time
	// Count is the number of daily closes to generate
	Count int
	// InitialPrice is the first close
	InitialPrice float64
	// Volatility controls day-to-day movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift spread across the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average daily volume
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns one year of daily closes starting at 100.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates daily closes following a geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.HistoricalPrice {
	data := make([]types.HistoricalPrice, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := currentPrice
		if i > 0 {
			closePrice = currentPrice * (1 + config.Volatility*z + drift)
			if closePrice <= 0 {
				closePrice = currentPrice * 0.99
			}
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance

		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.HistoricalPrice{
			Date:   currentTime,
			Close:  decimal.NewFromFloat(closePrice).Round(4),
			Volume: uint64(volume),
		}

		currentPrice = closePrice
		currentTime = currentTime.AddDate(0, 0, 1)
	}

	return data
}

// GenerateStockData wraps a generated history in a StockData whose current price is the last close.
func (g *DataGenerator) GenerateStockData(config GeneratorConfig, fetchedAt time.Time) types.StockData {
	history := g.Generate(config)

	current := decimal.NewFromFloat(config.InitialPrice)
	if len(history) > 0 {
		current = history[len(history)-1].Close
	}

	return types.StockData{
		Symbol:           config.Symbol,
		CurrentPrice:     current,
		HistoricalPrices: history,
		FetchedAt:        fetchedAt,
	}
}

// EndpointHistory returns a two point history whose closes are from and to,
// spaced days apart. It gives exact annualized returns in tests.
func EndpointHistory(start time.Time, days int, from, to string) []types.HistoricalPrice {
	return []types.HistoricalPrice{
		{Date: start, Close: decimal.RequireFromString(from), Volume: 1000},
		{Date: start.AddDate(0, 0, days), Close: decimal.RequireFromString(to), Volume: 1000},
	}
}

// StockDataWithReturn builds a StockData for symbol priced at price whose history
// spans 1461 days, so the annualized return of from to to is (to/from - 1) / 4.
func StockDataWithReturn(symbol string, price string, from string, to string, fetchedAt time.Time) types.StockData {
	start := fetchedAt.AddDate(0, 0, -1461)

	return types.StockData{
		Symbol:           symbol,
		CurrentPrice:     decimal.RequireFromString(price),
		HistoricalPrices: EndpointHistory(start, 1461, from, to),
		FetchedAt:        fetchedAt,
	}
}
