package marketcache

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata/provider"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFreshness is how long a fetched snapshot is served before it is refetched.
const DefaultFreshness = time.Hour

// Cache serves market snapshots per symbol and derives return metrics from them.
type Cache interface {
	// Get returns the snapshot for symbol, fetching it when absent or older than the freshness window.
	// The returned value is a copy owned by the caller.
	Get(ctx context.Context, symbol string) (types.StockData, error)
	// AnnualizedReturn computes the clamped per-year rate from the cached history of symbol.
	// It never fetches; the symbol must have been fetched with Get first.
	AnnualizedReturn(symbol string) (decimal.Decimal, error)
	// AveragePeriodicGain computes the mean change across the first window cached points of symbol.
	// It never fetches; the symbol must have been fetched with Get first.
	AveragePeriodicGain(symbol string, window int) (decimal.Decimal, error)
	// Reset drops every cached snapshot.
	Reset()
}

// Option configures a CacheV1.
type Option func(*CacheV1)

// WithClock replaces the clock used for stamping and freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *CacheV1) {
		c.now = now
	}
}

// WithFreshness overrides DefaultFreshness. Non-positive values are ignored.
func WithFreshness(freshness time.Duration) Option {
	return func(c *CacheV1) {
		if freshness > 0 {
			c.freshness = freshness
		}
	}
}

type CacheV1 struct {
	mu        sync.Mutex
	provider  provider.QuoteProvider
	log       *logger.Logger
	entries   map[string]types.StockData
	freshness time.Duration
	now       func() time.Time
}

func NewCacheV1(quoteProvider provider.QuoteProvider, log *logger.Logger, opts ...Option) Cache {
	c := &CacheV1{
		mu:        sync.Mutex{},
		provider:  quoteProvider,
		log:       log,
		entries:   make(map[string]types.StockData),
		freshness: DefaultFreshness,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get implements Cache.
func (c *CacheV1) Get(ctx context.Context, symbol string) (types.StockData, error) {
	// held across the fetch so a symbol is never fetched twice concurrently
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if entry, ok := c.entries[symbol]; ok && entry.Age(now) < c.freshness {
		c.log.Debug("Market data cache hit",
			zap.String("symbol", symbol),
			zap.Duration("age", entry.Age(now)),
		)

		return entry.Clone(), nil
	}

	c.log.Info("Fetching market data", zap.String("symbol", symbol))

	data, err := c.provider.Fetch(ctx, symbol)
	if err != nil {
		c.log.Error("Failed to fetch market data",
			zap.String("symbol", symbol),
			zap.String("kind", errors.Kind(err)),
			zap.Error(err),
		)

		return types.StockData{}, err
	}

	if data.Symbol == "" {
		data.Symbol = symbol
	}

	data.FetchedAt = now
	c.entries[symbol] = data.Clone()

	c.log.Debug("Market data cached",
		zap.String("symbol", symbol),
		zap.String("current_price", data.CurrentPrice.String()),
		zap.Int("history_points", len(data.HistoricalPrices)),
	)

	return data, nil
}

// AnnualizedReturn implements Cache.
func (c *CacheV1) AnnualizedReturn(symbol string) (decimal.Decimal, error) {
	entry, err := c.cached(symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return AnnualizedReturn(entry.HistoricalPrices), nil
}

// AveragePeriodicGain implements Cache.
func (c *CacheV1) AveragePeriodicGain(symbol string, window int) (decimal.Decimal, error) {
	entry, err := c.cached(symbol)
	if err != nil {
		return decimal.Zero, err
	}

	return AveragePeriodicGain(entry.HistoricalPrices, window), nil
}

// Reset implements Cache.
func (c *CacheV1) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]types.StockData)
}

func (c *CacheV1) cached(symbol string) (types.StockData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return types.StockData{}, errors.Newf(errors.ErrCodeSymbolNotCached, "symbol %s has not been fetched", symbol)
	}

	return entry, nil
}
