package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// PolygonAggsIterator is the subset of the polygon aggregate iterator used by PolygonClient.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the polygon REST client for testing.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonClientAdapter struct {
	client *polygon.Client
}

func (a *polygonClientAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	now       func() time.Time
}

func NewPolygonClient(apiKey string) (QuoteProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "apiKey is required")
	}

	return &PolygonClient{
		apiClient: &polygonClientAdapter{client: polygon.New(apiKey)},
		now:       time.Now,
	}, nil
}

// NewPolygonClientWithAPI creates a PolygonClient backed by the given API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// Fetch implements QuoteProvider using daily aggregates for the trailing year.
// The latest close doubles as the current price.
func (c *PolygonClient) Fetch(ctx context.Context, symbol string) (types.StockData, error) {
	now := c.now()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(now.Add(-HistoryLookback)),
		To:         models.Millis(now),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	var aggs []models.Agg
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}

	if iter.Err() != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, iter.Err(), "error iterating polygon aggregates for %s", symbol)
	}

	return aggsToStockData(symbol, aggs, now)
}

func aggsToStockData(symbol string, aggs []models.Agg, fetchedAt time.Time) (types.StockData, error) {
	if len(aggs) == 0 {
		return types.StockData{}, errors.Newf(errors.ErrCodeDataUnavailable, "no aggregates found for symbol: %s", symbol)
	}

	history := make([]types.HistoricalPrice, 0, len(aggs))

	for _, agg := range aggs {
		var volume uint64
		if agg.Volume > 0 {
			volume = uint64(agg.Volume)
		}

		history = append(history, types.HistoricalPrice{
			Date:   time.Time(agg.Timestamp).UTC(),
			Close:  decimal.NewFromFloat(agg.Close),
			Volume: volume,
		})
	}

	return types.StockData{
		Symbol:           symbol,
		CurrentPrice:     history[len(history)-1].Close,
		HistoricalPrices: history,
		FetchedAt:        fetchedAt,
	}, nil
}
