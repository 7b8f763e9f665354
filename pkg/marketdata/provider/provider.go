package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
)

// ProviderType defines the type of quote provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// HistoryLookback is how far back providers request daily closes.
const HistoryLookback = 365 * 24 * time.Hour

// QuoteProvider returns the current price and roughly one year of daily closes for a symbol.
type QuoteProvider interface {
	// Fetch performs exactly one upstream request sequence for the symbol.
	// Errors carry ErrCodeTransport, ErrCodeParse or ErrCodeDataUnavailable.
	// example:
	// Fetch(ctx, "AAPL")
	Fetch(ctx context.Context, symbol string) (types.StockData, error)
}

// NewQuoteProvider creates a quote provider based on the provider type.
// Polygon requires its API key as config. Yahoo and Binance accept an optional base URL string.
func NewQuoteProvider(providerType ProviderType, config any) (QuoteProvider, error) {
	switch providerType {
	case ProviderYahoo:
		baseURL, _ := config.(string)

		return NewYahooClient(baseURL, nil), nil
	case ProviderBinance:
		if baseURL, ok := config.(string); ok && baseURL != "" {
			return NewBinanceClientWithBaseURL(baseURL), nil
		}

		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported quote provider: %s", providerType)
	}
}
