// Package mockserver provides a mock market data server for testing.
// It serves the Yahoo Finance chart endpoint and the Binance klines and ticker price endpoints.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Series is the daily history served for one symbol.
type Series struct {
	// Price is the current market price
	Price float64
	// Dates are the daily timestamps, one per close
	Dates []time.Time
	// Closes are the daily closes. A nil entry is served as JSON null.
	Closes []*float64
	// Volumes are the daily volumes. A nil entry is served as JSON null.
	Volumes []*float64
}

// cannedResponse overrides the handler for one symbol.
type cannedResponse struct {
	status int
	body   string
}

// MockMarketServer is an in-process HTTP server that mimics the market data APIs.
type MockMarketServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	series   map[string]Series
	canned   map[string]cannedResponse
	requests map[string]int
}

// NewMockMarketServer creates a server with no symbols.
func NewMockMarketServer() *MockMarketServer {
	return &MockMarketServer{
		mu:         sync.RWMutex{},
		httpServer: nil,
		listener:   nil,
		series:     make(map[string]Series),
		canned:     make(map[string]cannedResponse),
		requests:   make(map[string]int),
	}
}

// Start starts the mock server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *MockMarketServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	router := mux.NewRouter()

	// Yahoo Finance
	router.HandleFunc("/v8/finance/chart/{symbol}", s.handleChart).Methods("GET")

	// Binance REST
	router.HandleFunc("/api/v3/ticker/price", s.handleTickerPrice).Methods("GET")
	router.HandleFunc("/api/v3/klines", s.handleKlines).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock server.
func (s *MockMarketServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *MockMarketServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *MockMarketServer) BaseURL() string {
	return "http://" + s.Address()
}

// SetSeries registers the history served for symbol.
func (s *MockMarketServer) SetSeries(symbol string, series Series) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series[symbol] = series
	delete(s.canned, symbol)
}

// SetLinearSeries registers days+1 daily closes moving linearly from first to last,
// ending on end, with the current price set to price.
func (s *MockMarketServer) SetLinearSeries(symbol string, price float64, end time.Time, days int, first float64, last float64) {
	series := Series{Price: price}

	for i := 0; i <= days; i++ {
		closePrice := first
		if days > 0 {
			closePrice = first + (last-first)*float64(i)/float64(days)
		}

		volume := 1000.0

		series.Dates = append(series.Dates, end.AddDate(0, 0, i-days))
		series.Closes = append(series.Closes, &closePrice)
		series.Volumes = append(series.Volumes, &volume)
	}

	s.SetSeries(symbol, series)
}

// SetRawResponse makes every request for symbol answer with status and body.
func (s *MockMarketServer) SetRawResponse(symbol string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canned[symbol] = cannedResponse{status: status, body: body}
}

// RequestCount returns the number of requests received for symbol across all endpoints.
func (s *MockMarketServer) RequestCount(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.requests[symbol]
}

// Reset removes all symbols and request counts.
func (s *MockMarketServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series = make(map[string]Series)
	s.canned = make(map[string]cannedResponse)
	s.requests = make(map[string]int)
}

// lookup records a request for symbol and returns its state.
func (s *MockMarketServer) lookup(symbol string) (Series, bool, *cannedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[symbol]++

	if canned, ok := s.canned[symbol]; ok {
		return Series{}, false, &canned
	}

	series, ok := s.series[symbol]

	return series, ok, nil
}

func (s *MockMarketServer) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	series, ok, canned := s.lookup(symbol)
	if canned != nil {
		writeRaw(w, canned.status, canned.body)

		return
	}

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"chart": map[string]any{
				"result": nil,
				"error": map[string]string{
					"code":        "Not Found",
					"description": "No data found, symbol may be delisted",
				},
			},
		})

		return
	}

	timestamps := make([]int64, len(series.Dates))
	for i, date := range series.Dates {
		timestamps[i] = date.Unix()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chart": map[string]any{
			"result": []any{
				map[string]any{
					"meta": map[string]any{
						"symbol":             symbol,
						"regularMarketPrice": series.Price,
					},
					"timestamp": timestamps,
					"indicators": map[string]any{
						"quote": []any{
							map[string]any{
								"close":  series.Closes,
								"volume": series.Volumes,
							},
						},
					},
				},
			},
			"error": nil,
		},
	})
}

func (s *MockMarketServer) handleTickerPrice(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	series, ok, canned := s.lookup(symbol)
	if canned != nil {
		writeRaw(w, canned.status, canned.body)

		return
	}

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": -1121, "msg": "Invalid symbol."})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"symbol": symbol,
		"price":  strconv.FormatFloat(series.Price, 'f', 8, 64),
	})
}

func (s *MockMarketServer) handleKlines(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	interval := r.URL.Query().Get("interval")

	if symbol == "" || interval == "" {
		http.Error(w, "Missing required parameters", http.StatusBadRequest)

		return
	}

	series, ok, canned := s.lookup(symbol)
	if canned != nil {
		writeRaw(w, canned.status, canned.body)

		return
	}

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": -1121, "msg": "Invalid symbol."})

		return
	}

	indexes := make([]int, 0, len(series.Dates))
	for i := range series.Dates {
		if i < len(series.Closes) && series.Closes[i] != nil {
			indexes = append(indexes, i)
		}
	}

	sort.Slice(indexes, func(a, b int) bool { return series.Dates[indexes[a]].Before(series.Dates[indexes[b]]) })

	// [openTime, open, high, low, close, volume, closeTime, ...]
	klines := make([][]any, 0, len(indexes))

	for _, i := range indexes {
		closePrice := strconv.FormatFloat(*series.Closes[i], 'f', 8, 64)

		volume := "0"
		if i < len(series.Volumes) && series.Volumes[i] != nil {
			volume = strconv.FormatFloat(*series.Volumes[i], 'f', 8, 64)
		}

		openTime := series.Dates[i].UnixMilli()
		klines = append(klines, []any{
			openTime,
			closePrice,
			closePrice,
			closePrice,
			closePrice,
			volume,
			openTime + (24 * time.Hour).Milliseconds() - 1,
			"0",
			0,
			"0",
			"0",
			"0",
		})
	}

	writeJSON(w, http.StatusOK, klines)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
