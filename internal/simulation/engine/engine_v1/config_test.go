package engine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(types.TradePolicySingleTrade, config.Policy)
	suite.Equal(30, config.PeriodicGainWindow)
	suite.Equal(5, config.LongHorizonYears)
	suite.True(config.Freshness.IsNone())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestUnmarshalYAML() {
	tests := []struct {
		name      string
		input     string
		policy    types.TradePolicy
		window    int
		horizon   int
		freshness time.Duration
		expectErr bool
	}{
		{
			name:    "only policy keeps defaults",
			input:   "policy: weekly_trade",
			policy:  types.TradePolicyWeeklyTrade,
			window:  30,
			horizon: 5,
		},
		{
			name:      "all fields",
			input:     "policy: single_trade\nperiodic_gain_window: 10\nlong_horizon_years: 7\nfreshness: 30m",
			policy:    types.TradePolicySingleTrade,
			window:    10,
			horizon:   7,
			freshness: 30 * time.Minute,
		},
		{
			name:      "bad freshness",
			input:     "freshness: soon",
			expectErr: true,
		},
		{
			name:      "wrong type",
			input:     "periodic_gain_window: many",
			expectErr: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			var config SimulatorV1Config

			err := yaml.Unmarshal([]byte(tc.input), &config)
			if tc.expectErr {
				suite.Error(err)

				return
			}

			suite.Require().NoError(err)
			suite.Equal(tc.policy, config.Policy)
			suite.Equal(tc.window, config.PeriodicGainWindow)
			suite.Equal(tc.horizon, config.LongHorizonYears)

			if tc.freshness > 0 {
				suite.True(config.Freshness.IsSome())
				suite.Equal(tc.freshness, config.Freshness.Unwrap())
			} else {
				suite.True(config.Freshness.IsNone())
			}
		})
	}
}

func (suite *ConfigTestSuite) TestValidate() {
	config := EmptyConfig()
	config.Policy = "monthly_trade"

	err := config.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	config = EmptyConfig()
	config.PeriodicGainWindow = 0
	suite.True(errors.HasCode(config.Validate(), errors.ErrCodeInvalidConfiguration))

	config = EmptyConfig()
	config.LongHorizonYears = 0
	suite.True(errors.HasCode(config.Validate(), errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := &SimulatorV1Config{}
	schema, err := config.GenerateSchema()

	suite.NoError(err)
	suite.NotNil(schema)
	suite.Equal("simulator-v1-config", schema.Title)
	suite.Equal("Configuration schema for SimulatorV1", schema.Description)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &SimulatorV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()

	suite.NoError(err)
	suite.NotEmpty(schemaJSON)

	// Verify it's valid JSON
	var decoded map[string]any
	suite.NoError(json.Unmarshal([]byte(schemaJSON), &decoded))

	suite.Contains(schemaJSON, "periodic_gain_window")
	suite.Contains(schemaJSON, "weekly_trade")
	suite.Contains(schemaJSON, "freshness")
}
