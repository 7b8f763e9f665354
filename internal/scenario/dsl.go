package scenario

import (
	"bufio"
	"io"
	"strings"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// DSL keywords. Anything else at the start of a line is ignored.
const (
	keywordInvest     = "INVEST"
	keywordTime       = "TIME"
	keywordInvestment = "INVESTMENT"
	keywordPattern    = "PATTERN"
	keywordTest       = "TEST"
)

// ParseDSL reads the line-oriented scenario format:
//
//	INVEST 1000, 5000
//	TIME 10d, 3y
//	INVESTMENT AAPL Apple Inc
//	PATTERN tech Apple Inc, Microsoft
//	TEST tech
//
// Blank lines and lines starting with // are skipped, as are lines too short for their keyword.
func ParseDSL(r io.Reader) (types.Scenario, error) {
	scenario := types.NewScenario()
	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		parts := strings.Fields(line)

		var err error

		switch parts[0] {
		case keywordInvest:
			if len(parts) >= 2 {
				err = parseInvest(&scenario, parts[1:])
			}
		case keywordTime:
			if len(parts) >= 2 {
				err = parseTime(&scenario, parts[1:])
			}
		case keywordInvestment:
			if len(parts) >= 3 {
				ticker := parts[1]
				scenario.Investments[ticker] = types.NewInvestment(ticker, strings.Join(parts[2:], " "))
			}
		case keywordPattern:
			if len(parts) >= 3 {
				scenario.Patterns[parts[1]] = splitList(strings.Join(parts[2:], " "))
			}
		case keywordTest:
			if len(parts) >= 2 {
				scenario.Tests = append(scenario.Tests, parts[1])
			}
		}

		if err != nil {
			return types.Scenario{}, errors.Wrapf(errors.GetCode(err), err, "line %d", lineNumber)
		}
	}

	if err := scanner.Err(); err != nil {
		return types.Scenario{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to read scenario", err)
	}

	return scenario, nil
}

func parseInvest(scenario *types.Scenario, parts []string) error {
	for _, field := range splitList(strings.Join(parts, " ")) {
		amount, err := decimal.NewFromString(field)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid amount %q", field)
		}

		if !amount.IsPositive() {
			return errors.Newf(errors.ErrCodeInvalidParameter, "amount %q must be positive", field)
		}

		scenario.InvestAmounts = append(scenario.InvestAmounts, amount)
	}

	return nil
}

func parseTime(scenario *types.Scenario, parts []string) error {
	for _, field := range splitList(strings.Join(parts, " ")) {
		timeFrame, err := types.ParseTimeFrame(field)
		if err != nil {
			return err
		}

		scenario.TimeFrames = append(scenario.TimeFrames, timeFrame)
	}

	return nil
}

// splitList splits a comma separated list and trims every entry.
func splitList(s string) []string {
	fields := strings.Split(s, ",")
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}

	return fields
}
