package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimeUnit is the unit of a simulation horizon.
type TimeUnit string

const (
	TimeUnitDays  TimeUnit = "days"
	TimeUnitWeeks TimeUnit = "weeks"
	TimeUnitYears TimeUnit = "years"
)

// AllTimeUnits lists the supported units, used by schema generation.
var AllTimeUnits = []any{string(TimeUnitDays), string(TimeUnitWeeks), string(TimeUnitYears)}

const (
	daysPerWeek  = 7
	weeksPerYear = 52
)

var (
	daysPerYear      = decimal.RequireFromString("365.25")
	weeksPerYearDec  = decimal.NewFromInt(weeksPerYear)
	timeUnitSuffixes = map[TimeUnit]string{
		TimeUnitDays:  "d",
		TimeUnitWeeks: "w",
		TimeUnitYears: "y",
	}
)

// ParseTimeUnit accepts the short form used by scenario files (d, w, y)
// as well as the full unit names.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "days":
		return TimeUnitDays, nil
	case "w", "week", "weeks":
		return TimeUnitWeeks, nil
	case "y", "year", "years":
		return TimeUnitYears, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimeFrame, "invalid time unit: %q", s)
	}
}

// TimeFrame is a simulation horizon such as 10 days or 3 years.
type TimeFrame struct {
	Duration int      `yaml:"duration" json:"duration"`
	Unit     TimeUnit `yaml:"unit" json:"unit"`
}

// ParseTimeFrame parses the compact form "<duration><unit>", e.g. "10d", "5w" or "3y".
func ParseTimeFrame(s string) (TimeFrame, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return TimeFrame{}, errors.Newf(errors.ErrCodeInvalidTimeFrame, "invalid time format: %q", s)
	}

	numberPart, unitPart := s[:len(s)-1], s[len(s)-1:]

	duration, err := strconv.Atoi(numberPart)
	if err != nil {
		return TimeFrame{}, errors.Wrapf(errors.ErrCodeInvalidTimeFrame, err, "invalid duration in %q", s)
	}

	if duration <= 0 {
		return TimeFrame{}, errors.Newf(errors.ErrCodeInvalidTimeFrame, "duration must be positive: %q", s)
	}

	unit, err := ParseTimeUnit(unitPart)
	if err != nil {
		return TimeFrame{}, err
	}

	return TimeFrame{Duration: duration, Unit: unit}, nil
}

// Weeks normalizes the time frame to whole weeks.
// Days round up to the next full week.
func (t TimeFrame) Weeks() int {
	switch t.Unit {
	case TimeUnitDays:
		return (t.Duration + daysPerWeek - 1) / daysPerWeek
	case TimeUnitWeeks:
		return t.Duration
	case TimeUnitYears:
		return t.Duration * weeksPerYear
	default:
		return 0
	}
}

// Years returns the horizon as fractional years, used for growth compounding.
func (t TimeFrame) Years() decimal.Decimal {
	duration := decimal.NewFromInt(int64(t.Duration))

	switch t.Unit {
	case TimeUnitDays:
		return duration.Div(daysPerYear)
	case TimeUnitWeeks:
		return duration.Div(weeksPerYearDec)
	case TimeUnitYears:
		return duration
	default:
		return decimal.Zero
	}
}

// String returns the compact form, e.g. "10d".
func (t TimeFrame) String() string {
	suffix, ok := timeUnitSuffixes[t.Unit]
	if !ok {
		return fmt.Sprintf("%d %s", t.Duration, t.Unit)
	}

	return fmt.Sprintf("%d%s", t.Duration, suffix)
}

// MarshalYAML writes the time frame in its compact form.
func (t TimeFrame) MarshalYAML() (any, error) {
	return t.String(), nil
}
