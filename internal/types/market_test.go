package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestCloneDoesNotAlias() {
	fetchedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := StockData{
		Symbol:       "ALPH",
		CurrentPrice: decimal.NewFromInt(100),
		HistoricalPrices: []HistoricalPrice{
			{Date: fetchedAt.AddDate(0, 0, -1), Close: decimal.NewFromInt(99), Volume: 10},
		},
		FetchedAt: fetchedAt,
	}

	clone := original.Clone()
	clone.HistoricalPrices[0].Close = decimal.NewFromInt(1)

	suite.True(decimal.NewFromInt(99).Equal(original.HistoricalPrices[0].Close))
	suite.Equal(original.FetchedAt, clone.FetchedAt)
}

func (suite *MarketTestSuite) TestCloneNilHistory() {
	clone := StockData{Symbol: "EMPTY"}.Clone()
	suite.Nil(clone.HistoricalPrices)
}

func (suite *MarketTestSuite) TestAge() {
	fetchedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	data := StockData{FetchedAt: fetchedAt}
	suite.Equal(30*time.Minute, data.Age(fetchedAt.Add(30*time.Minute)))
}
