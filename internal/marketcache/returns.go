package marketcache

import (
	"sort"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/shopspring/decimal"
)

var (
	// total price ratio band, applied before annualizing
	minTotalRatio = decimal.RequireFromString("0.1")
	maxTotalRatio = decimal.NewFromInt(10)

	// annual rate band, applied after annualizing
	minAnnualReturn = decimal.RequireFromString("-0.30")
	maxAnnualReturn = decimal.RequireFromString("0.40")

	daysPerYear = decimal.RequireFromString("365.25")
)

// AnnualizedReturn estimates a per-year rate from the earliest and latest close of history.
//
// The total ratio latest/earliest is clamped to [0.1, 10], converted to a linear per-year
// rate over the elapsed whole days, and the rate is clamped to [-0.30, 0.40].
// Returns zero when fewer than two points exist, the earliest close is not positive,
// or the points span less than a day.
func AnnualizedReturn(history []types.HistoricalPrice) decimal.Decimal {
	if len(history) < 2 {
		return decimal.Zero
	}

	sorted := make([]types.HistoricalPrice, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first, last := sorted[0], sorted[len(sorted)-1]
	if !first.Close.IsPositive() {
		return decimal.Zero
	}

	days := int64(last.Date.Sub(first.Date) / (24 * time.Hour))
	if days <= 0 {
		return decimal.Zero
	}

	years := decimal.NewFromInt(days).Div(daysPerYear)

	ratio := Clamp(last.Close.Div(first.Close), minTotalRatio, maxTotalRatio)
	annual := ratio.Sub(decimal.NewFromInt(1)).Div(years)

	return Clamp(annual, minAnnualReturn, maxAnnualReturn)
}

// AveragePeriodicGain returns the mean fractional change between consecutive closes
// among the first window points of history, in the order given.
// Pairs whose earlier close is not positive are skipped. Returns zero when no pair qualifies.
func AveragePeriodicGain(history []types.HistoricalPrice, window int) decimal.Decimal {
	if window <= 0 || len(history) < 2 {
		return decimal.Zero
	}

	if window > len(history) {
		window = len(history)
	}

	points := history[:window]
	sum := decimal.Zero
	count := int64(0)

	for i := 1; i < len(points); i++ {
		prev := points[i-1].Close
		if !prev.IsPositive() {
			continue
		}

		sum = sum.Add(points[i].Close.Sub(prev).Div(prev))
		count++
	}

	if count == 0 {
		return decimal.Zero
	}

	return sum.Div(decimal.NewFromInt(count))
}

// Clamp bounds value to [lower, upper].
func Clamp(value, lower, upper decimal.Decimal) decimal.Decimal {
	if value.LessThan(lower) {
		return lower
	}

	if value.GreaterThan(upper) {
		return upper
	}

	return value
}
