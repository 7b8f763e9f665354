package marketdata

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata/provider"
)

// ProviderType re-exports provider.ProviderType for callers configuring a provider.
type ProviderType = provider.ProviderType

const (
	ProviderYahoo   = provider.ProviderYahoo
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
)

// ProviderConfig selects and configures the quote provider used to warm the cache.
type ProviderConfig struct {
	Type          ProviderType `json:"type" jsonschema:"title=Provider,description=Quote provider to fetch prices from,enum=yahoo,enum=polygon,enum=binance,default=yahoo" validate:"required,oneof=yahoo polygon binance"`
	PolygonApiKey string       `json:"polygonApiKey,omitempty" jsonschema:"title=Polygon API Key,description=Polygon.io API key; required for the polygon provider" validate:"required_if=Type polygon"`
	BaseURL       string       `json:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Override the provider host (yahoo and binance only)" validate:"omitempty,url"`
}

// DefaultProviderConfig returns the Yahoo provider against the public host.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Type:          ProviderYahoo,
		PolygonApiKey: "",
		BaseURL:       "",
	}
}

// Validate validates the ProviderConfig.
func (c ProviderConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid provider configuration", err)
	}

	return nil
}

// NewProvider validates config and creates the matching QuoteProvider.
func NewProvider(config ProviderConfig) (provider.QuoteProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case ProviderPolygon:
		return provider.NewQuoteProvider(config.Type, config.PolygonApiKey)
	default:
		return provider.NewQuoteProvider(config.Type, config.BaseURL)
	}
}

// ParseProviderConfig parses and validates a JSON provider configuration.
func ParseProviderConfig(jsonConfig string) (ProviderConfig, error) {
	config := DefaultProviderConfig()
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return ProviderConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return ProviderConfig{}, err
	}

	return config, nil
}
