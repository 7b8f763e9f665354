package engine

import (
	"github.com/rxtech-lab/argo-rotation/internal/marketcache"
	"github.com/shopspring/decimal"
)

var (
	longHorizonMinRate = decimal.RequireFromString("-0.10")
	longHorizonMaxRate = decimal.RequireFromString("0.15")
	percentageCap      = decimal.NewFromInt(999999)
	percentageFloor    = decimal.NewFromInt(-100)
	hundred            = decimal.NewFromInt(100)
)

// growthFactor returns the multiplier applied to the invested amount over years at rate.
// Up to longHorizonYears the rate compounds per whole year and the remaining fraction is
// applied linearly. Beyond it the rate is narrowed to [-10%, 15%] and applied linearly.
func growthFactor(rate decimal.Decimal, years decimal.Decimal, longHorizonYears int) decimal.Decimal {
	if !years.IsPositive() {
		return decimal.NewFromInt(1)
	}

	if years.GreaterThan(decimal.NewFromInt(int64(longHorizonYears))) {
		capped := marketcache.Clamp(rate, longHorizonMinRate, longHorizonMaxRate)

		return decimal.NewFromInt(1).Add(capped.Mul(years))
	}

	multiplier := decimal.NewFromInt(1).Add(rate)
	factor := decimal.NewFromInt(1)
	wholeYears := years.Floor()

	for i := int64(0); i < wholeYears.IntPart(); i++ {
		factor = factor.Mul(multiplier)
	}

	if fraction := years.Sub(wholeYears); fraction.IsPositive() {
		factor = factor.Mul(decimal.NewFromInt(1).Add(rate.Mul(fraction)))
	}

	return factor
}

// percentageGain returns gain / initial * 100. It is zero when initial is not positive.
//
// Decimal arithmetic cannot overflow, so a magnitude beyond 999999 stands in for an
// overflowed percentage: it is reported as +999999 or -100 depending on the sign of gain.
// Results past the threshold are clamped even when they are exact.
func percentageGain(gain decimal.Decimal, initial decimal.Decimal) decimal.Decimal {
	if !initial.IsPositive() {
		return decimal.Zero
	}

	percentage := gain.Div(initial).Mul(hundred)
	if percentage.Abs().GreaterThan(percentageCap) {
		if gain.IsNegative() {
			return percentageFloor
		}

		return percentageCap
	}

	return percentage
}
