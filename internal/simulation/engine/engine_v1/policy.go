package engine

import (
	"context"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// weekStep is the company traded in one week of the rotation.
type weekStep struct {
	week       int
	company    string
	investment types.Investment
}

// policyOutcome is what a trade policy produced for one run.
type policyOutcome struct {
	finalAmount decimal.Decimal
	trades      []types.Trade
}

// tradePolicy records trades along the schedule and grows the amount.
type tradePolicy func(ctx context.Context, s *SimulatorV1, schedule []weekStep, amount decimal.Decimal, years decimal.Decimal, expectedReturn decimal.Decimal) (policyOutcome, error)

var tradePolicies = map[types.TradePolicy]tradePolicy{
	types.TradePolicySingleTrade: singleTrade,
	types.TradePolicyWeeklyTrade: weeklyTrade,
}

// singleTrade buys the first scheduled company with the full amount in week 1 and grows
// the amount with the pattern's expected annual return.
func singleTrade(ctx context.Context, s *SimulatorV1, schedule []weekStep, amount decimal.Decimal, years decimal.Decimal, expectedReturn decimal.Decimal) (policyOutcome, error) {
	first := schedule[0]

	price, err := s.currentPrice(ctx, first.investment.Ticker)
	if err != nil {
		return policyOutcome{}, err
	}

	trade := types.Trade{
		Week:           first.week,
		Company:        first.company,
		Symbol:         first.investment.Ticker,
		Price:          price,
		SharesBought:   amount.Div(price),
		AmountInvested: amount,
	}

	return policyOutcome{
		finalAmount: amount.Mul(growthFactor(expectedReturn, years, s.config.LongHorizonYears)),
		trades:      []types.Trade{trade},
	}, nil
}

// weeklyTrade reinvests the whole amount every week into the scheduled company and grows it
// with that company's average periodic gain.
func weeklyTrade(ctx context.Context, s *SimulatorV1, schedule []weekStep, amount decimal.Decimal, _ decimal.Decimal, _ decimal.Decimal) (policyOutcome, error) {
	trades := make([]types.Trade, 0, len(schedule))
	current := amount

	for _, step := range schedule {
		price, err := s.currentPrice(ctx, step.investment.Ticker)
		if err != nil {
			return policyOutcome{}, err
		}

		shares := current.Div(price)
		invested := shares.Mul(price)

		trades = append(trades, types.Trade{
			Week:           step.week,
			Company:        step.company,
			Symbol:         step.investment.Ticker,
			Price:          price,
			SharesBought:   shares,
			AmountInvested: invested,
		})

		gain, err := s.cache.AveragePeriodicGain(step.investment.Ticker, s.config.PeriodicGainWindow)
		if err != nil {
			return policyOutcome{}, err
		}

		current = invested.Mul(decimal.NewFromInt(1).Add(gain))
	}

	return policyOutcome{
		finalAmount: current,
		trades:      trades,
	}, nil
}

// currentPrice reads the cached current price of symbol. A non-positive price cannot size a trade.
func (s *SimulatorV1) currentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	data, err := s.cache.Get(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	if !data.CurrentPrice.IsPositive() {
		return decimal.Zero, errors.Newf(errors.ErrCodeDataUnavailable, "no usable current price for %s: %s", symbol, data.CurrentPrice.String())
	}

	return data.CurrentPrice, nil
}
