package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// binanceDailyInterval is the kline interval used for history.
const binanceDailyInterval = "1d"

// BinanceKlinesService abstracts the binance klines request builder.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinancePricesService abstracts the binance ticker price request builder.
type BinancePricesService interface {
	Symbol(symbol string) BinancePricesService
	Do(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// BinanceAPIClient abstracts the binance client for testing.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
	NewListPricesService() BinancePricesService
}

type binanceClientAdapter struct {
	client *binance.Client
}

func (a *binanceClientAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceAdapter{service: a.client.NewKlinesService()}
}

func (a *binanceClientAdapter) NewListPricesService() BinancePricesService {
	return &binancePricesServiceAdapter{service: a.client.NewListPricesService()}
}

type binanceKlinesServiceAdapter struct {
	service *binance.KlinesService
}

func (s *binanceKlinesServiceAdapter) Symbol(symbol string) BinanceKlinesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *binanceKlinesServiceAdapter) Interval(interval string) BinanceKlinesService {
	s.service = s.service.Interval(interval)

	return s
}

func (s *binanceKlinesServiceAdapter) StartTime(startTime int64) BinanceKlinesService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *binanceKlinesServiceAdapter) EndTime(endTime int64) BinanceKlinesService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *binanceKlinesServiceAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.service.Do(ctx)
}

type binancePricesServiceAdapter struct {
	service *binance.ListPricesService
}

func (s *binancePricesServiceAdapter) Symbol(symbol string) BinancePricesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *binancePricesServiceAdapter) Do(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return s.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	now       func() time.Time
}

func NewBinanceClient() (QuoteProvider, error) {
	client := binance.NewClient("", "")

	return &BinanceClient{
		apiClient: &binanceClientAdapter{client: client},
		now:       time.Now,
	}, nil
}

// NewBinanceClientWithBaseURL creates a BinanceClient that talks to baseURL instead of the public API.
func NewBinanceClientWithBaseURL(baseURL string) *BinanceClient {
	client := binance.NewClient("", "")
	client.BaseURL = baseURL

	return NewBinanceClientWithAPI(&binanceClientAdapter{client: client})
}

// NewBinanceClientWithAPI creates a BinanceClient backed by the given API client.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// Fetch implements QuoteProvider. History comes from daily klines over the trailing
// year and the current price from the ticker price endpoint.
func (c *BinanceClient) Fetch(ctx context.Context, symbol string) (types.StockData, error) {
	now := c.now()

	klines, err := c.apiClient.NewKlinesService().
		Symbol(symbol).
		Interval(binanceDailyInterval).
		StartTime(now.Add(-HistoryLookback).UnixMilli()).
		EndTime(now.UnixMilli()).
		Do(ctx)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, err, "failed to fetch klines from Binance for %s", symbol)
	}

	history, err := klinesToHistory(klines)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeParse, err, "failed to parse klines for %s", symbol)
	}

	prices, err := c.apiClient.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeTransport, err, "failed to fetch ticker price from Binance for %s", symbol)
	}

	if len(prices) == 0 {
		return types.StockData{}, errors.Newf(errors.ErrCodeDataUnavailable, "no ticker price found for symbol: %s", symbol)
	}

	currentPrice, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return types.StockData{}, errors.Wrapf(errors.ErrCodeParse, err, "invalid ticker price %q for %s", prices[0].Price, symbol)
	}

	return types.StockData{
		Symbol:           symbol,
		CurrentPrice:     currentPrice,
		HistoricalPrices: history,
		FetchedAt:        now,
	}, nil
}

// klinesToHistory converts binance klines to daily history points keyed by open time.
func klinesToHistory(klines []*binance.Kline) ([]types.HistoricalPrice, error) {
	history := make([]types.HistoricalPrice, 0, len(klines))

	for _, k := range klines {
		closePrice, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, err
		}

		var volume uint64

		if v, err := decimal.NewFromString(k.Volume); err == nil && v.IsPositive() {
			volume = uint64(v.IntPart())
		}

		history = append(history, types.HistoricalPrice{
			Date:   time.UnixMilli(k.OpenTime).UTC(),
			Close:  closePrice,
			Volume: volume,
		})
	}

	return history, nil
}
