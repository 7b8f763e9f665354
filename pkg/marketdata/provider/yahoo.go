package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// DefaultYahooBaseURL is the public Yahoo Finance chart API host.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	yahooUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	yahooChartPath      = "/v8/finance/chart/%s?interval=1d&range=1y"
)

// YahooClient fetches daily chart data from the Yahoo Finance v8 chart endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewYahooClient creates a Yahoo chart client. An empty baseURL selects the public host
// and a nil httpClient selects a client with a 30 second timeout.
func NewYahooClient(baseURL string, httpClient *http.Client) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &YahooClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

type yahooQuote struct {
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// Fetch implements QuoteProvider.
func (c *YahooClient) Fetch(ctx context.Context, symbol string) (types.StockData, error) {
	endpoint := c.baseURL + fmt.Sprintf(yahooChartPath, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, err, "failed to build chart request for %s", symbol)
	}

	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, err, "chart request for %s failed", symbol)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, err, "failed to read chart response for %s", symbol)
	}

	var chart yahooChartResponse
	decodeErr := json.Unmarshal(body, &chart)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Yahoo answers unknown symbols with 404 and a chart.error payload.
		if decodeErr == nil && chart.Chart.Error != nil {
			return types.StockData{}, errors.Newf(errors.ErrCodeDataUnavailable, "no data found for symbol %s: %s", symbol, chart.Chart.Error.Description)
		}

		return types.StockData{}, errors.Newf(errors.ErrCodeTransport, "chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	if decodeErr != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeParse, decodeErr, "failed to decode chart response for %s", symbol)
	}

	if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
		return types.StockData{}, errors.Newf(errors.ErrCodeDataUnavailable, "no data found for symbol: %s", symbol)
	}

	return parseYahooChart(symbol, chart.Chart.Result[0], c.now())
}

// parseYahooChart converts the first chart result into a StockData value.
// Null closes are skipped and null volumes are recorded as zero.
func parseYahooChart(symbol string, result yahooChartResult, fetchedAt time.Time) (types.StockData, error) {
	if result.Meta.RegularMarketPrice == nil {
		return types.StockData{}, errors.Newf(errors.ErrCodeParse, "chart response for %s has no regularMarketPrice", symbol)
	}

	history := make([]types.HistoricalPrice, 0, len(result.Timestamp))

	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]

		for i, timestamp := range result.Timestamp {
			if i >= len(quote.Close) || quote.Close[i] == nil {
				continue
			}

			var volume uint64
			if i < len(quote.Volume) && quote.Volume[i] != nil && *quote.Volume[i] > 0 {
				volume = uint64(*quote.Volume[i])
			}

			history = append(history, types.HistoricalPrice{
				Date:   time.Unix(timestamp, 0).UTC(),
				Close:  decimal.NewFromFloat(*quote.Close[i]),
				Volume: volume,
			})
		}
	}

	return types.StockData{
		Symbol:           symbol,
		CurrentPrice:     decimal.NewFromFloat(*result.Meta.RegularMarketPrice),
		HistoricalPrices: history,
		FetchedAt:        fetchedAt,
	}, nil
}
