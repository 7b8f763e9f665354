package marketcache

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReturnsTestSuite struct {
	suite.Suite
	start time.Time
}

func TestReturnsSuite(t *testing.T) {
	suite.Run(t, new(ReturnsTestSuite))
}

func (suite *ReturnsTestSuite) SetupTest() {
	suite.start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *ReturnsTestSuite) point(offsetDays int, close string) types.HistoricalPrice {
	return types.HistoricalPrice{
		Date:   suite.start.AddDate(0, 0, offsetDays),
		Close:  decimal.RequireFromString(close),
		Volume: 1,
	}
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnTooFewPoints() {
	suite.True(AnnualizedReturn(nil).IsZero())
	suite.True(AnnualizedReturn([]types.HistoricalPrice{suite.point(0, "100")}).IsZero())
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnNonPositiveEarliest() {
	history := []types.HistoricalPrice{suite.point(0, "0"), suite.point(365, "120")}
	suite.True(AnnualizedReturn(history).IsZero())

	history = []types.HistoricalPrice{suite.point(0, "-5"), suite.point(365, "120")}
	suite.True(AnnualizedReturn(history).IsZero())
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnSameDay() {
	history := []types.HistoricalPrice{suite.point(0, "100"), suite.point(0, "150")}
	suite.True(AnnualizedReturn(history).IsZero())
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnLinearOverFourYears() {
	history := mocks.EndpointHistory(suite.start, 1461, "100", "140")

	suite.Equal("0.1", AnnualizedReturn(history).String())
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnSortsChronologically() {
	history := []types.HistoricalPrice{
		suite.point(1461, "140"),
		suite.point(700, "90"),
		suite.point(0, "100"),
	}

	suite.Equal("0.1", AnnualizedReturn(history).String())
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnDoesNotMutateInput() {
	history := []types.HistoricalPrice{suite.point(1461, "140"), suite.point(0, "100")}

	AnnualizedReturn(history)
	suite.Equal(suite.start.AddDate(0, 0, 1461), history[0].Date)
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnClampBand() {
	testCases := []struct {
		name     string
		from, to string
		days     int
		expected string
	}{
		{name: "hundredfold gain over a year", from: "1", to: "100", days: 365, expected: "0.4"},
		{name: "hundredth over a year", from: "100", to: "1", days: 365, expected: "-0.3"},
		{name: "hundredfold gain over ten years", from: "1", to: "100", days: 3653, expected: "0.4"},
		{name: "hundredth over ten years", from: "100", to: "1", days: 3653, expected: "-0.09"},
		{name: "small gain inside band", from: "100", to: "110", days: 1461, expected: "0.025"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			history := mocks.EndpointHistory(suite.start, tc.days, tc.from, tc.to)
			result := AnnualizedReturn(history)

			suite.False(result.LessThan(minAnnualReturn), "below band: %s", result)
			suite.False(result.GreaterThan(maxAnnualReturn), "above band: %s", result)

			if tc.expected != "" {
				suite.True(result.Round(4).Equal(decimal.RequireFromString(tc.expected)), "got %s", result)
			}
		})
	}
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnClampOrder() {
	// 0.01x over ten years: ratio clamps to 0.1 first, giving -0.9/10 = -0.09
	// rather than the -0.099/10 an unclamped ratio would produce.
	history := mocks.EndpointHistory(suite.start, 3653, "100", "1")
	result := AnnualizedReturn(history)

	expectedYears := decimal.NewFromInt(3653).Div(daysPerYear)
	expected := decimal.RequireFromString("-0.9").Div(expectedYears)
	suite.True(result.Equal(expected), "got %s want %s", result, expected)
}

func (suite *ReturnsTestSuite) TestClamp() {
	lower := decimal.RequireFromString("-0.10")
	upper := decimal.RequireFromString("0.15")

	suite.True(Clamp(decimal.RequireFromString("-0.5"), lower, upper).Equal(lower))
	suite.True(Clamp(decimal.RequireFromString("0.5"), lower, upper).Equal(upper))
	suite.True(Clamp(decimal.RequireFromString("0.05"), lower, upper).Equal(decimal.RequireFromString("0.05")))
	suite.True(Clamp(upper, lower, upper).Equal(upper))
}

func (suite *ReturnsTestSuite) TestAnnualizedReturnRandomHistoriesStayInBand() {
	gen := mocks.NewDataGenerator(99)

	for i := 0; i < 20; i++ {
		config := mocks.DefaultConfig()
		config.Volatility = 0.2
		config.Trend = float64(i-10) / 2

		result := AnnualizedReturn(gen.Generate(config))
		suite.False(result.LessThan(minAnnualReturn))
		suite.False(result.GreaterThan(maxAnnualReturn))
	}
}

func (suite *ReturnsTestSuite) TestAveragePeriodicGain() {
	history := []types.HistoricalPrice{
		suite.point(0, "100"),
		suite.point(1, "110"),
		suite.point(2, "99"),
		suite.point(3, "500"),
	}

	// (0.1 + -0.1) / 2 over the first three points
	suite.True(AveragePeriodicGain(history, 3).IsZero())

	// window larger than history uses every point
	expected := decimal.RequireFromString("0.1").
		Add(decimal.RequireFromString("-0.1")).
		Add(decimal.NewFromInt(401).Div(decimal.NewFromInt(99))).
		Div(decimal.NewFromInt(3))
	suite.True(AveragePeriodicGain(history, 30).Equal(expected))
}

func (suite *ReturnsTestSuite) TestAveragePeriodicGainUsesCacheOrder() {
	history := []types.HistoricalPrice{
		suite.point(5, "200"),
		suite.point(0, "100"),
	}

	suite.Equal("-0.5", AveragePeriodicGain(history, 2).String())
}

func (suite *ReturnsTestSuite) TestAveragePeriodicGainSkipsNonPositive() {
	history := []types.HistoricalPrice{
		suite.point(0, "0"),
		suite.point(1, "10"),
		suite.point(2, "12"),
	}

	suite.Equal("0.2", AveragePeriodicGain(history, 3).String())

	history = []types.HistoricalPrice{suite.point(0, "0"), suite.point(1, "10")}
	suite.True(AveragePeriodicGain(history, 2).IsZero())
}

func (suite *ReturnsTestSuite) TestAveragePeriodicGainDegenerate() {
	suite.True(AveragePeriodicGain(nil, 30).IsZero())
	suite.True(AveragePeriodicGain([]types.HistoricalPrice{suite.point(0, "1")}, 30).IsZero())
	suite.True(AveragePeriodicGain([]types.HistoricalPrice{suite.point(0, "1"), suite.point(1, "2")}, 0).IsZero())
	suite.True(AveragePeriodicGain([]types.HistoricalPrice{suite.point(0, "1"), suite.point(1, "2")}, 1).IsZero())
}
