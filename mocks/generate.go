package mocks

//go:generate mockgen -destination=./mock_quote_provider.go -package=mocks github.com/rxtech-lab/argo-rotation/pkg/marketdata/provider QuoteProvider
//go:generate mockgen -destination=./mock_cache.go -package=mocks github.com/rxtech-lab/argo-rotation/internal/marketcache Cache
