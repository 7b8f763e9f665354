package provider

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-rotation/e2e/mockserver"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type YahooClientTestSuite struct {
	suite.Suite
	server *mockserver.MockMarketServer
	client *YahooClient
}

func TestYahooClientSuite(t *testing.T) {
	suite.Run(t, new(YahooClientTestSuite))
}

func (suite *YahooClientTestSuite) SetupTest() {
	suite.server = mockserver.NewMockMarketServer()
	suite.Require().NoError(suite.server.Start(":0"))
	suite.client = NewYahooClient(suite.server.BaseURL(), nil)
}

func (suite *YahooClientTestSuite) TearDownTest() {
	suite.server.Stop()
}

func (suite *YahooClientTestSuite) TestNewYahooClientDefaults() {
	client := NewYahooClient("", nil)
	suite.Equal(DefaultYahooBaseURL, client.baseURL)
	suite.NotNil(client.httpClient)

	client = NewYahooClient("http://localhost:9999/", nil)
	suite.Equal("http://localhost:9999", client.baseURL)
}

func (suite *YahooClientTestSuite) TestFetchSuccess() {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.server.SetLinearSeries("AAPL", 190.25, end, 4, 100, 104)

	data, err := suite.client.Fetch(context.Background(), "AAPL")
	suite.Require().NoError(err)

	suite.Equal("AAPL", data.Symbol)
	suite.True(data.CurrentPrice.Equal(decimal.RequireFromString("190.25")))
	suite.Require().Len(data.HistoricalPrices, 5)
	suite.True(data.HistoricalPrices[0].Close.Equal(decimal.NewFromInt(100)))
	suite.True(data.HistoricalPrices[4].Close.Equal(decimal.NewFromInt(104)))
	suite.Equal(end, data.HistoricalPrices[4].Date)
	suite.Equal(uint64(1000), data.HistoricalPrices[4].Volume)
	suite.False(data.FetchedAt.IsZero())
	suite.Equal(1, suite.server.RequestCount("AAPL"))
}

func (suite *YahooClientTestSuite) TestFetchSkipsNullCloses() {
	one, three := 101.0, 103.0
	volume := 500.0
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.server.SetSeries("MSFT", mockserver.Series{
		Price:   410,
		Dates:   []time.Time{start, start.AddDate(0, 0, 1), start.AddDate(0, 0, 2)},
		Closes:  []*float64{&one, nil, &three},
		Volumes: []*float64{&volume, &volume, nil},
	})

	data, err := suite.client.Fetch(context.Background(), "MSFT")
	suite.Require().NoError(err)
	suite.Require().Len(data.HistoricalPrices, 2)
	suite.Equal(uint64(500), data.HistoricalPrices[0].Volume)
	suite.True(data.HistoricalPrices[1].Close.Equal(decimal.NewFromInt(103)))
	suite.Equal(uint64(0), data.HistoricalPrices[1].Volume)
}

func (suite *YahooClientTestSuite) TestFetchUnknownSymbol() {
	_, err := suite.client.Fetch(context.Background(), "NOPE")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *YahooClientTestSuite) TestFetchEmptyResult() {
	suite.server.SetRawResponse("EMPTY", http.StatusOK, `{"chart":{"result":[],"error":null}}`)

	_, err := suite.client.Fetch(context.Background(), "EMPTY")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *YahooClientTestSuite) TestFetchMalformedBody() {
	suite.server.SetRawResponse("BAD", http.StatusOK, `{"chart":`)

	_, err := suite.client.Fetch(context.Background(), "BAD")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeParse))
}

func (suite *YahooClientTestSuite) TestFetchMissingPrice() {
	suite.server.SetRawResponse("NOPRICE", http.StatusOK, `{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`)

	_, err := suite.client.Fetch(context.Background(), "NOPRICE")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeParse))
}

func (suite *YahooClientTestSuite) TestFetchServerError() {
	suite.server.SetRawResponse("DOWN", http.StatusBadGateway, `upstream unavailable`)

	_, err := suite.client.Fetch(context.Background(), "DOWN")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTransport))
	suite.Contains(err.Error(), "502")
}

func (suite *YahooClientTestSuite) TestFetchConnectionRefused() {
	client := NewYahooClient("http://127.0.0.1:1", nil)

	_, err := client.Fetch(context.Background(), "AAPL")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTransport))
}

func (suite *YahooClientTestSuite) TestFetchCancelledContext() {
	suite.server.SetLinearSeries("AAPL", 1, time.Now(), 1, 1, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.client.Fetch(ctx, "AAPL")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeTransport))
}
