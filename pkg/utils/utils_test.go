package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

// sampleEntry is a nested config struct for testing
type sampleEntry struct {
	Ticker string `json:"ticker" jsonschema:"description=Ticker symbol"`
	Name   string `json:"name"`
}

// sampleConfig is a sample config struct for testing
type sampleConfig struct {
	Invest  []string      `json:"invest" jsonschema:"description=Amounts to invest"`
	Window  int           `json:"window,omitempty" jsonschema:"minimum=1,default=30"`
	Entries []sampleEntry `json:"entries"`
}

func (suite *UtilsTestSuite) decode(schema string) map[string]any {
	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	return result
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfigUsesReferences() {
	schema, err := GetSchemaFromConfig(sampleConfig{})
	suite.NoError(err)

	result := suite.decode(schema)
	suite.Contains(result, "$schema")
	suite.Contains(result, "$ref")
	suite.Contains(result, "$defs")
}

func (suite *UtilsTestSuite) TestGetInlineSchemaFromConfig() {
	schema, err := GetInlineSchemaFromConfig(sampleConfig{})
	suite.NoError(err)

	result := suite.decode(schema)
	suite.NotContains(result, "$ref")
	suite.Equal("object", result["type"])

	properties, ok := result["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "invest")
	suite.Contains(properties, "window")
	suite.Contains(properties, "entries")
}

func (suite *UtilsTestSuite) TestPointerAndPrimitiveInputs() {
	for _, input := range []any{&sampleConfig{}, "string", 42, true, []sampleConfig{}, map[string]sampleEntry{}} {
		schema, err := GetSchemaFromConfig(input)
		suite.NoError(err)
		suite.NotEmpty(schema)
	}
}
