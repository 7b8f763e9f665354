package mocks

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DataGeneratorTestSuite struct {
	suite.Suite
}

func TestDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(DataGeneratorTestSuite))
}

func (suite *DataGeneratorTestSuite) TestGenerate() {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)
	suite.Len(data, 100)
	suite.True(data[0].Close.Equal(decimal.NewFromFloat(config.InitialPrice)))

	for i := 1; i < len(data); i++ {
		suite.Equal(24*time.Hour, data[i].Date.Sub(data[i-1].Date), "interval at index %d", i)
	}

	for i, d := range data {
		suite.True(d.Close.IsPositive(), "close at index %d must be positive", i)
	}
}

func (suite *DataGeneratorTestSuite) TestReproducibility() {
	config := DefaultConfig()
	config.Count = 50

	first := NewDataGenerator(7).Generate(config)
	second := NewDataGenerator(7).Generate(config)

	suite.Require().Len(second, len(first))

	for i := range first {
		suite.True(first[i].Close.Equal(second[i].Close))
		suite.Equal(first[i].Volume, second[i].Volume)
	}
}

func (suite *DataGeneratorTestSuite) TestGenerateStockData() {
	fetchedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	config := DefaultConfig()
	config.Symbol = "AAPL"

	data := NewDataGenerator(1).GenerateStockData(config, fetchedAt)
	suite.Equal("AAPL", data.Symbol)
	suite.Equal(fetchedAt, data.FetchedAt)
	suite.True(data.CurrentPrice.Equal(data.HistoricalPrices[len(data.HistoricalPrices)-1].Close))
}

func (suite *DataGeneratorTestSuite) TestStockDataWithReturn() {
	fetchedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	data := StockDataWithReturn("MSFT", "150", "100", "140", fetchedAt)
	suite.Require().Len(data.HistoricalPrices, 2)
	suite.Equal(fetchedAt, data.HistoricalPrices[1].Date)
	suite.Equal(1461, int(data.HistoricalPrices[1].Date.Sub(data.HistoricalPrices[0].Date).Hours()/24))
}
