package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultPeriodicGainWindow = 30
	defaultLongHorizonYears   = 5
)

type SimulatorV1Config struct {
	Policy             types.TradePolicy              `yaml:"policy" json:"policy" jsonschema:"title=Policy,description=How trades are recorded and the invested amount grows,default=single_trade" validate:"required,oneof=single_trade weekly_trade"`
	PeriodicGainWindow int                            `yaml:"periodic_gain_window" json:"periodic_gain_window" jsonschema:"title=Periodic Gain Window,description=Number of cached closes averaged by the weekly_trade policy,minimum=1,default=30" validate:"min=1"`
	LongHorizonYears   int                            `yaml:"long_horizon_years" json:"long_horizon_years" jsonschema:"title=Long Horizon Years,description=Horizons longer than this many years switch from compounding to the linear capped model,minimum=1,default=5" validate:"min=1"`
	Freshness          optional.Option[time.Duration] `yaml:"freshness" json:"freshness" jsonschema:"title=Freshness,description=Maximum age of cached market data before it is refetched (e.g. 30m or 2h)"`
}

// UnmarshalYAML implements custom unmarshaling for SimulatorV1Config.
// Omitted fields keep their defaults.
func (c *SimulatorV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		Policy             *string `yaml:"policy"`
		PeriodicGainWindow *int    `yaml:"periodic_gain_window"`
		LongHorizonYears   *int    `yaml:"long_horizon_years"`
		Freshness          *string `yaml:"freshness"`
	}

	var config Config
	if err := value.Decode(&config); err != nil {
		return err
	}

	*c = EmptyConfig()

	if config.Policy != nil {
		c.Policy = types.TradePolicy(*config.Policy)
	}

	if config.PeriodicGainWindow != nil {
		c.PeriodicGainWindow = *config.PeriodicGainWindow
	}

	if config.LongHorizonYears != nil {
		c.LongHorizonYears = *config.LongHorizonYears
	}

	if config.Freshness != nil {
		freshness, err := time.ParseDuration(*config.Freshness)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid freshness %q", *config.Freshness)
		}

		c.Freshness = optional.Some(freshness)
	}

	return nil
}

// Validate checks field ranges and the policy name.
func (c SimulatorV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid engine configuration", err)
	}

	if c.Freshness.IsSome() && c.Freshness.Unwrap() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "freshness must be positive")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the SimulatorV1Config
func (c *SimulatorV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Duration]" {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|ms|s|m|h))+$`,
				}
			}

			if strings.Contains(t.String(), "types.TradePolicy") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: types.AllTradePolicies,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "simulator-v1-config"
	schema.Description = "Configuration schema for SimulatorV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the SimulatorV1Config
func (c *SimulatorV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a SimulatorV1Config with default values
func EmptyConfig() SimulatorV1Config {
	return SimulatorV1Config{
		Policy:             types.TradePolicySingleTrade,
		PeriodicGainWindow: defaultPeriodicGainWindow,
		LongHorizonYears:   defaultLongHorizonYears,
		Freshness:          optional.None[time.Duration](),
	}
}
