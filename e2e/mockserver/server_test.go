package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MockServerTestSuite struct {
	suite.Suite
	server *MockMarketServer
}

func TestMockServerSuite(t *testing.T) {
	suite.Run(t, new(MockServerTestSuite))
}

func (suite *MockServerTestSuite) SetupTest() {
	suite.server = NewMockMarketServer()
	suite.Require().NoError(suite.server.Start(":0"))
}

func (suite *MockServerTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Stop()
	}
}

func (suite *MockServerTestSuite) get(path string) (int, []byte) {
	resp, err := http.Get(suite.server.BaseURL() + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	return resp.StatusCode, body
}

func (suite *MockServerTestSuite) TestChartKnownSymbol() {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.server.SetLinearSeries("AAPL", 190.5, end, 10, 100, 110)

	status, body := suite.get("/v8/finance/chart/AAPL?interval=1d&range=1y")
	suite.Equal(http.StatusOK, status)

	var payload struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
				Timestamp []int64 `json:"timestamp"`
			} `json:"result"`
		} `json:"chart"`
	}
	suite.Require().NoError(json.Unmarshal(body, &payload))
	suite.Require().Len(payload.Chart.Result, 1)
	suite.Equal(190.5, payload.Chart.Result[0].Meta.RegularMarketPrice)
	suite.Len(payload.Chart.Result[0].Timestamp, 11)
	suite.Equal(end.Unix(), payload.Chart.Result[0].Timestamp[10])
	suite.Equal(1, suite.server.RequestCount("AAPL"))
}

func (suite *MockServerTestSuite) TestChartUnknownSymbol() {
	status, body := suite.get("/v8/finance/chart/NOPE")
	suite.Equal(http.StatusNotFound, status)
	suite.Contains(string(body), "No data found")
}

func (suite *MockServerTestSuite) TestRawResponse() {
	suite.server.SetRawResponse("BAD", http.StatusOK, "{not json")

	status, body := suite.get("/v8/finance/chart/BAD")
	suite.Equal(http.StatusOK, status)
	suite.Equal("{not json", string(body))
}

func (suite *MockServerTestSuite) TestBinanceEndpoints() {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.server.SetLinearSeries("BTCUSDT", 65000, end, 4, 60000, 64000)

	status, body := suite.get("/api/v3/ticker/price?symbol=BTCUSDT")
	suite.Equal(http.StatusOK, status)
	suite.Contains(string(body), `"price":"65000.00000000"`)

	status, body = suite.get("/api/v3/klines?symbol=BTCUSDT&interval=1d")
	suite.Equal(http.StatusOK, status)

	var klines [][]any
	suite.Require().NoError(json.Unmarshal(body, &klines))
	suite.Len(klines, 5)
	suite.Equal("64000.00000000", klines[4][4])
	suite.Equal(2, suite.server.RequestCount("BTCUSDT"))
}

func (suite *MockServerTestSuite) TestReset() {
	suite.server.SetLinearSeries("AAPL", 1, time.Now(), 1, 1, 2)
	suite.get("/v8/finance/chart/AAPL")
	suite.server.Reset()

	suite.Equal(0, suite.server.RequestCount("AAPL"))
	status, _ := suite.get("/v8/finance/chart/AAPL")
	suite.Equal(http.StatusNotFound, status)
}
