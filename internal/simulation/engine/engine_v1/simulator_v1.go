package engine

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/marketcache"
	"github.com/rxtech-lab/argo-rotation/internal/simulation/engine"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata/provider"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type SimulatorV1 struct {
	config   SimulatorV1Config
	log      *logger.Logger
	cache    marketcache.Cache
	scenario *types.Scenario
}

func NewSimulatorV1() engine.Engine {
	return &SimulatorV1{
		config:   EmptyConfig(),
		log:      nil,
		cache:    nil,
		scenario: nil,
	}
}

// Initialize implements engine.Engine.
func (s *SimulatorV1) Initialize(config string) error {
	// parse the config
	err := yaml.Unmarshal([]byte(config), &s.config)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse engine configuration", err)
	}

	if err := s.config.Validate(); err != nil {
		return err
	}

	// initialize the logger unless one was provided
	if s.log == nil {
		var loggerError error

		s.log, loggerError = logger.NewLogger()
		if loggerError != nil {
			return loggerError
		}
	}

	s.log.Debug("Simulation engine initialized",
		zap.String("policy", string(s.config.Policy)),
		zap.Int("periodic_gain_window", s.config.PeriodicGainWindow),
		zap.Int("long_horizon_years", s.config.LongHorizonYears),
	)

	return nil
}

// SetLogger implements engine.Engine.
func (s *SimulatorV1) SetLogger(log *logger.Logger) error {
	if log == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "logger is nil")
	}

	s.log = log

	return nil
}

// SetQuoteProvider implements engine.Engine.
func (s *SimulatorV1) SetQuoteProvider(quoteProvider provider.QuoteProvider) error {
	if quoteProvider == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "quote provider is nil")
	}

	var opts []marketcache.Option
	if s.config.Freshness.IsSome() {
		opts = append(opts, marketcache.WithFreshness(s.config.Freshness.Unwrap()))
	}

	s.cache = marketcache.NewCacheV1(quoteProvider, s.logger(), opts...)

	return nil
}

// SetCache implements engine.Engine.
func (s *SimulatorV1) SetCache(cache marketcache.Cache) error {
	if cache == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "cache is nil")
	}

	s.cache = cache

	return nil
}

// SetScenario implements engine.Engine.
func (s *SimulatorV1) SetScenario(scenario types.Scenario) error {
	// warm-up writes prices into the investments, keep the caller's maps untouched
	scenario.Investments = maps.Clone(scenario.Investments)
	scenario.Patterns = maps.Clone(scenario.Patterns)

	if scenario.Investments == nil {
		scenario.Investments = make(map[string]types.Investment)
	}

	if scenario.Patterns == nil {
		scenario.Patterns = make(map[string]types.Pattern)
	}

	s.scenario = &scenario

	s.logger().Debug("Scenario set",
		zap.Int("investments", len(scenario.Investments)),
		zap.Int("patterns", len(scenario.Patterns)),
		zap.Strings("tests", scenario.Tests),
	)

	return nil
}

// selectedTest is a requested test name paired with its pattern.
type selectedTest struct {
	name    string
	pattern types.Pattern
}

// Run implements engine.Engine.
func (s *SimulatorV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (_ types.ResultSet, err error) {
	// Invoke OnSimulationEnd callback when run completes (always called via defer)
	defer func() {
		if callbacks.OnSimulationEnd != nil {
			(*callbacks.OnSimulationEnd)(err)
		}
	}()

	if err := s.preRunCheck(); err != nil {
		return types.ResultSet{}, err
	}

	tests := s.selectedTests()

	if callbacks.OnSimulationStart != nil {
		if err := (*callbacks.OnSimulationStart)(len(tests), len(s.scenario.InvestAmounts), len(s.scenario.TimeFrames)); err != nil {
			return types.ResultSet{}, fmt.Errorf("OnSimulationStart callback failed: %w", err)
		}
	}

	if err := s.warmUp(ctx, callbacks); err != nil {
		return types.ResultSet{}, err
	}

	results := make([]types.SimulationResult, 0, len(tests)*len(s.scenario.InvestAmounts)*len(s.scenario.TimeFrames))

	for _, test := range tests {
		for _, amount := range s.scenario.InvestAmounts {
			for _, timeFrame := range s.scenario.TimeFrames {
				if err := ctx.Err(); err != nil {
					return types.ResultSet{}, err
				}

				runID := uuid.New().String()

				if callbacks.OnRunStart != nil {
					if err := (*callbacks.OnRunStart)(runID, test.name, amount, timeFrame); err != nil {
						return types.ResultSet{}, fmt.Errorf("OnRunStart callback failed: %w", err)
					}
				}

				result, err := s.simulate(ctx, runID, test.name, test.pattern, amount, timeFrame)
				if err != nil {
					s.log.Error("Simulation failed",
						zap.String("pattern", test.name),
						zap.String("amount", amount.String()),
						zap.String("time_frame", timeFrame.String()),
						zap.String("kind", errors.Kind(err)),
						zap.Error(err),
					)

					return types.ResultSet{}, err
				}

				if callbacks.OnRunEnd != nil {
					(*callbacks.OnRunEnd)(result)
				}

				results = append(results, result)
			}
		}
	}

	return types.ResultSet{
		Results: results,
		Summary: summarize(results),
	}, nil
}

// Simulate implements engine.Engine.
func (s *SimulatorV1) Simulate(ctx context.Context, patternName string, pattern types.Pattern, amount decimal.Decimal, timeFrame types.TimeFrame) (types.SimulationResult, error) {
	if s.cache == nil {
		return types.SimulationResult{}, errors.New(errors.ErrCodeInvalidConfiguration, "no market data cache set")
	}

	return s.simulate(ctx, uuid.New().String(), patternName, pattern, amount, timeFrame)
}

// GetConfigSchema implements engine.Engine.
func (s *SimulatorV1) GetConfigSchema() (string, error) {
	config := s.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

func (s *SimulatorV1) simulate(ctx context.Context, runID string, patternName string, pattern types.Pattern, amount decimal.Decimal, timeFrame types.TimeFrame) (types.SimulationResult, error) {
	totalWeeks := timeFrame.Weeks()

	if len(pattern) == 0 {
		return types.SimulationResult{}, errors.Newf(errors.ErrCodeEmptyPattern, "pattern %q has no companies", patternName)
	}

	if totalWeeks <= 0 {
		return types.SimulationResult{}, errors.Newf(errors.ErrCodeInvalidTimeFrame, "time frame %s covers no weeks", timeFrame.String())
	}

	policy, ok := tradePolicies[s.config.Policy]
	if !ok {
		return types.SimulationResult{}, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown trade policy %q", s.config.Policy)
	}

	schedule, err := s.buildSchedule(pattern, totalWeeks)
	if err != nil {
		return types.SimulationResult{}, err
	}

	expectedReturn, err := s.expectedAnnualReturn(ctx, pattern)
	if err != nil {
		return types.SimulationResult{}, err
	}

	years := timeFrame.Years()

	outcome, err := policy(ctx, s, schedule, amount, years, expectedReturn)
	if err != nil {
		return types.SimulationResult{}, err
	}

	totalGain := outcome.finalAmount.Sub(amount)

	result := types.SimulationResult{
		ID:                   runID,
		PatternName:          patternName,
		Policy:               s.config.Policy,
		InitialAmount:        amount,
		TimeFrame:            timeFrame,
		ExpectedAnnualReturn: expectedReturn,
		FinalAmount:          outcome.finalAmount,
		TotalGain:            totalGain,
		PercentageGain:       percentageGain(totalGain, amount),
		Trades:               outcome.trades,
	}

	s.logger().Debug("Simulation completed",
		zap.String("id", runID),
		zap.String("pattern", patternName),
		zap.String("amount", amount.String()),
		zap.String("time_frame", timeFrame.String()),
		zap.Int("weeks", totalWeeks),
		zap.String("final_amount", result.FinalAmount.StringFixed(2)),
		zap.Int("trades", len(result.Trades)),
	)

	return result, nil
}

func (s *SimulatorV1) currentScenario() *types.Scenario {
	if s.scenario == nil {
		empty := types.NewScenario()

		return &empty
	}

	return s.scenario
}

// buildSchedule resolves the company of every week in 1..totalWeeks.
// Only names that are actually scheduled must match an investment.
func (s *SimulatorV1) buildSchedule(pattern types.Pattern, totalWeeks int) ([]weekStep, error) {
	scenario := s.currentScenario()
	resolved := make(map[string]types.Investment, len(pattern))
	schedule := make([]weekStep, 0, totalWeeks)

	for week := 1; week <= totalWeeks; week++ {
		company := pattern.At(week)

		investment, ok := resolved[company]
		if !ok {
			investment, ok = scenario.InvestmentByName(company)
			if !ok {
				return nil, errors.Newf(errors.ErrCodeUnknownCompany, "investment not found for company: %s", company)
			}

			resolved[company] = investment
		}

		schedule = append(schedule, weekStep{
			week:       week,
			company:    company,
			investment: investment,
		})
	}

	return schedule, nil
}

// expectedAnnualReturn is the unweighted mean annualized return over the distinct companies
// of the pattern that match an investment. Unmatched names are skipped.
func (s *SimulatorV1) expectedAnnualReturn(ctx context.Context, pattern types.Pattern) (decimal.Decimal, error) {
	scenario := s.currentScenario()
	total := decimal.Zero
	count := int64(0)

	for _, name := range pattern.Distinct() {
		investment, ok := scenario.InvestmentByName(name)
		if !ok {
			continue
		}

		// hits after warm-up; populates the cache when Simulate is called directly
		if _, err := s.cache.Get(ctx, investment.Ticker); err != nil {
			return decimal.Zero, err
		}

		rate, err := s.cache.AnnualizedReturn(investment.Ticker)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(rate)
		count++
	}

	if count == 0 {
		return decimal.Zero, nil
	}

	return total.Div(decimal.NewFromInt(count)), nil
}

func (s *SimulatorV1) warmUp(ctx context.Context, callbacks engine.LifecycleCallbacks) error {
	tickers := s.scenario.SortedTickers()

	for i, ticker := range tickers {
		if callbacks.OnWarmupSymbol != nil {
			if err := (*callbacks.OnWarmupSymbol)(i, len(tickers), ticker); err != nil {
				return fmt.Errorf("OnWarmupSymbol callback failed: %w", err)
			}
		}

		data, err := s.cache.Get(ctx, ticker)
		if err != nil {
			s.log.Error("Failed to warm up market data",
				zap.String("symbol", ticker),
				zap.String("kind", errors.Kind(err)),
				zap.Error(err),
			)

			return err
		}

		s.scenario.Investments[ticker] = s.scenario.Investments[ticker].WithPrice(data.CurrentPrice)
	}

	s.log.Debug("Market data warmed up",
		zap.Int("symbols", len(tickers)),
	)

	return nil
}

// selectedTests pairs each requested test name with its pattern, skipping names without one.
func (s *SimulatorV1) selectedTests() []selectedTest {
	tests := make([]selectedTest, 0, len(s.scenario.Tests))

	for _, name := range s.scenario.Tests {
		pattern, ok := s.scenario.Patterns[name]
		if !ok {
			s.log.Warn("Skipping test without a pattern",
				zap.String("test", name),
			)

			continue
		}

		tests = append(tests, selectedTest{name: name, pattern: pattern})
	}

	return tests
}

func (s *SimulatorV1) preRunCheck() error {
	s.logger()

	if s.cache == nil {
		s.log.Error("No market data cache set")

		return errors.New(errors.ErrCodeInvalidConfiguration, "no market data cache set")
	}

	if s.scenario == nil {
		s.log.Error("No scenario set")

		return errors.New(errors.ErrCodeInvalidConfiguration, "no scenario set")
	}

	return nil
}

// logger returns the engine logger, falling back to a no-op logger before Initialize.
func (s *SimulatorV1) logger() *logger.Logger {
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}

	return s.log
}
