package engine

import (
	"context"

	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/marketcache"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata/provider"
	"github.com/shopspring/decimal"
)

// Lifecycle callback types for simulation phases
// All callbacks with error return can abort execution if they return an error

// OnSimulationStartCallback is called once before warm-up with the size of the cross product.
type OnSimulationStartCallback func(totalPatterns int, totalAmounts int, totalTimeFrames int) error

// OnSimulationEndCallback is called when the batch completes (always called via defer).
type OnSimulationEndCallback func(err error)

// OnWarmupSymbolCallback is called before each symbol is fetched during warm-up.
type OnWarmupSymbolCallback func(index int, total int, symbol string) error

// OnRunStartCallback is called before a single (pattern, amount, time frame) simulation.
// runID is the ID the resulting SimulationResult will carry.
type OnRunStartCallback func(runID string, patternName string, amount decimal.Decimal, timeFrame types.TimeFrame) error

// OnRunEndCallback is called after a simulation produced its result.
type OnRunEndCallback func(result types.SimulationResult)

// LifecycleCallbacks holds all lifecycle callback functions for the simulation engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnSimulationStart *OnSimulationStartCallback
	OnSimulationEnd   *OnSimulationEndCallback
	OnWarmupSymbol    *OnWarmupSymbolCallback
	OnRunStart        *OnRunStartCallback
	OnRunEnd          *OnRunEndCallback
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetLogger replaces the logger created by Initialize.
	SetLogger(log *logger.Logger) error
	// SetQuoteProvider builds a market data cache over the provider using the configured freshness.
	SetQuoteProvider(quoteProvider provider.QuoteProvider) error
	// SetCache sets the market data cache directly, replacing any cache built by SetQuoteProvider.
	SetCache(cache marketcache.Cache) error
	// SetScenario sets the scenario the next Run executes.
	SetScenario(scenario types.Scenario) error
	// Run warms the cache for every investment of the scenario, then simulates every
	// selected pattern against every amount and time frame.
	// Any failure aborts the batch and no partial result set is returned.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (types.ResultSet, error)
	// Simulate runs a single pattern for one amount over one time frame.
	// Company names are resolved against the scenario set with SetScenario.
	Simulate(ctx context.Context, patternName string, pattern types.Pattern, amount decimal.Decimal, timeFrame types.TimeFrame) (types.SimulationResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
