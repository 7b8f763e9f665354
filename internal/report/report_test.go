package report

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ReportTestSuite struct {
	suite.Suite
	dir string
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func weeklyTrades(count int) []types.Trade {
	trades := make([]types.Trade, 0, count)
	for week := 1; week <= count; week++ {
		trades = append(trades, types.Trade{
			Week:           week,
			Company:        "Alpha Corp",
			Symbol:         "ALPH",
			Price:          dec("50"),
			SharesBought:   dec("20"),
			AmountInvested: dec("1000"),
		})
	}

	return trades
}

func sampleResultSet() types.ResultSet {
	best := types.SimulationResult{
		ID:                   "run-1",
		PatternName:          "tech",
		Policy:               types.TradePolicySingleTrade,
		InitialAmount:        dec("1000"),
		TimeFrame:            types.TimeFrame{Duration: 1, Unit: types.TimeUnitYears},
		ExpectedAnnualReturn: dec("0.1"),
		FinalAmount:          dec("1100"),
		TotalGain:            dec("100"),
		PercentageGain:       dec("10"),
		Trades:               weeklyTrades(1),
	}
	worst := types.SimulationResult{
		ID:                   "run-2",
		PatternName:          "energy",
		Policy:               types.TradePolicyWeeklyTrade,
		InitialAmount:        dec("1000"),
		TimeFrame:            types.TimeFrame{Duration: 10, Unit: types.TimeUnitWeeks},
		ExpectedAnnualReturn: dec("-0.05"),
		FinalAmount:          dec("950"),
		TotalGain:            dec("-50"),
		PercentageGain:       dec("-5"),
		Trades:               weeklyTrades(8),
	}

	return types.ResultSet{
		Results: []types.SimulationResult{best, worst},
		Summary: optional.Some(types.Summary{Best: best, Worst: worst}),
	}
}

func (suite *ReportTestSuite) TestRenderText() {
	text := RenderText(sampleResultSet())

	suite.Contains(text, "STOCK SIMULATION RESULTS")
	suite.Contains(text, "tech")
	suite.Contains(text, "$1000.00")
	suite.Contains(text, "1 year")
	suite.Contains(text, "10 weeks")
	suite.Contains(text, "$1100.00")
	suite.Contains(text, "10.00%")
	suite.Contains(text, "-5.00%")
	suite.Contains(text, "Week 1: Alpha Corp @ $50.00 (20.0000 shares)")
	suite.Contains(text, "Week 5: Alpha Corp")
	suite.NotContains(text, "Week 6: Alpha Corp")
	suite.Contains(text, "... and 3 more trades")
	suite.Equal(1, strings.Count(text, "more trades"))
	suite.Contains(text, "SUMMARY")
	suite.Contains(text, "energy with")
}

func (suite *ReportTestSuite) TestRenderTextWithoutResults() {
	text := RenderText(types.ResultSet{Summary: optional.None[types.Summary]()})

	suite.Contains(text, "STOCK SIMULATION RESULTS")
	suite.NotContains(text, "SUMMARY")
}

func (suite *ReportTestSuite) TestFormatTimeFrame() {
	suite.Equal("1 day", FormatTimeFrame(types.TimeFrame{Duration: 1, Unit: types.TimeUnitDays}))
	suite.Equal("10 days", FormatTimeFrame(types.TimeFrame{Duration: 10, Unit: types.TimeUnitDays}))
	suite.Equal("3 years", FormatTimeFrame(types.TimeFrame{Duration: 3, Unit: types.TimeUnitYears}))
}

func (suite *ReportTestSuite) TestWriteStats() {
	path := filepath.Join(suite.dir, "stats.yaml")
	suite.Require().NoError(WriteStats(path, sampleResultSet()))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))

	suite.Equal(2, decoded["runs"])
	results, ok := decoded["results"].([]any)
	suite.Require().True(ok)
	suite.Len(results, 2)

	first := results[0].(map[string]any)
	suite.Equal("tech", first["pattern"])
	suite.Equal("1y", first["time_frame"])
	suite.Equal("1100", first["final_amount"])
	suite.NotContains(first, "trades")

	best := decoded["best"].(map[string]any)
	suite.Equal("run-1", best["id"])
}

func (suite *ReportTestSuite) TestNewStatsWithoutSummary() {
	stats := NewStats(types.ResultSet{}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	suite.Equal(0, stats.Runs)
	suite.NotNil(stats.Results)
	suite.Nil(stats.Best)
	suite.Nil(stats.Worst)
}

func (suite *ReportTestSuite) TestWriteStatsToMissingDirectory() {
	err := WriteStats(filepath.Join(suite.dir, "missing", "stats.yaml"), sampleResultSet())
	suite.True(errors.HasCode(err, errors.ErrCodeExportFailed))
}

func (suite *ReportTestSuite) TestLedgerWriter() {
	path := filepath.Join(suite.dir, "ledger.parquet")
	writer := NewLedgerWriter(path, logger.NewNopLogger())

	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.WriteAll(sampleResultSet()))

	outputPath, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal(path, outputPath)
	suite.FileExists(path)

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	suite.Require().NoError(db.QueryRow("SELECT COUNT(*) FROM read_parquet('" + path + "')").Scan(&count))
	suite.Equal(9, count)

	var weeks int
	suite.Require().NoError(db.QueryRow("SELECT COUNT(*) FROM read_parquet('" + path + "') WHERE result_id = 'run-2'").Scan(&weeks))
	suite.Equal(8, weeks)

	var price float64
	suite.Require().NoError(db.QueryRow("SELECT price FROM read_parquet('" + path + "') WHERE result_id = 'run-1'").Scan(&price))
	suite.InDelta(50.0, price, 1e-9)
}

func (suite *ReportTestSuite) TestLedgerWriterNotInitialized() {
	writer := NewLedgerWriter(filepath.Join(suite.dir, "ledger.parquet"), nil)

	suite.True(errors.HasCode(writer.Write(sampleResultSet().Results[0]), errors.ErrCodeExportFailed))

	_, err := writer.Finalize()
	suite.True(errors.HasCode(err, errors.ErrCodeExportFailed))
	suite.NoError(writer.Close())
}
