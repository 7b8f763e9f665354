package scenario

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/internal/version"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a scenario.
type Document struct {
	Version     string               `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Engine version the scenario was written for. Major and minor must match the running engine,example=v0.3.0"`
	Invest      []string             `yaml:"invest" json:"invest" jsonschema:"title=Invest,description=Amounts invested by every run,minItems=1" validate:"required,min=1,dive,required,numeric"`
	Time        []string             `yaml:"time" json:"time" jsonschema:"title=Time,description=Horizons such as 10d or 5w or 3y,minItems=1" validate:"required,min=1,dive,required"`
	Investments []DocumentInvestment `yaml:"investments" json:"investments" jsonschema:"title=Investments,minItems=1" validate:"required,min=1,dive"`
	Patterns    map[string][]string  `yaml:"patterns" json:"patterns" jsonschema:"title=Patterns,description=Named rotations of company display names" validate:"required,min=1,dive,dive,required"`
	Tests       []string             `yaml:"tests" json:"tests" jsonschema:"title=Tests,description=Pattern names to run in order,minItems=1" validate:"required,min=1,dive,required"`
}

// DocumentInvestment is one tradable company of a YAML scenario.
type DocumentInvestment struct {
	Ticker string `yaml:"ticker" json:"ticker" jsonschema:"title=Ticker,example=AAPL" validate:"required"`
	Name   string `yaml:"name" json:"name" jsonschema:"title=Name,example=Apple Inc" validate:"required"`
}

// ParseYAML decodes, validates and converts a YAML scenario.
func ParseYAML(r io.Reader) (types.Scenario, error) {
	var document Document

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&document); err != nil {
		if err == io.EOF {
			return types.Scenario{}, errors.New(errors.ErrCodeInvalidParameter, "scenario is empty")
		}

		return types.Scenario{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse scenario", err)
	}

	return document.Scenario()
}

// Validate checks required fields and the scenario version against the running engine.
func (d Document) Validate() error {
	validate := validator.New()
	if err := validate.Struct(d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid scenario", err)
	}

	return version.CheckVersionCompatibility(version.Version, d.Version)
}

// Scenario validates the document and converts it.
func (d Document) Scenario() (types.Scenario, error) {
	if err := d.Validate(); err != nil {
		return types.Scenario{}, err
	}

	scenario := types.NewScenario()

	for _, field := range d.Invest {
		amount, err := decimal.NewFromString(field)
		if err != nil {
			return types.Scenario{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid amount %q", field)
		}

		if !amount.IsPositive() {
			return types.Scenario{}, errors.Newf(errors.ErrCodeInvalidParameter, "amount %q must be positive", field)
		}

		scenario.InvestAmounts = append(scenario.InvestAmounts, amount)
	}

	for _, field := range d.Time {
		timeFrame, err := types.ParseTimeFrame(field)
		if err != nil {
			return types.Scenario{}, err
		}

		scenario.TimeFrames = append(scenario.TimeFrames, timeFrame)
	}

	for _, investment := range d.Investments {
		scenario.Investments[investment.Ticker] = types.NewInvestment(investment.Ticker, investment.Name)
	}

	for name, companies := range d.Patterns {
		scenario.Patterns[name] = append(types.Pattern(nil), companies...)
	}

	scenario.Tests = append(scenario.Tests, d.Tests...)

	return scenario, nil
}
