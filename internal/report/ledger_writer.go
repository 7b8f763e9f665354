package report

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

const ledgerTable = "trades"

var ledgerColumns = []string{
	"result_id",
	"pattern",
	"policy",
	"initial_amount",
	"time_frame",
	"week",
	"company",
	"symbol",
	"price",
	"shares_bought",
	"amount_invested",
}

// LedgerWriter collects the trades of simulation results in an in-memory DuckDB table
// and exports them as a Parquet file.
type LedgerWriter struct {
	db         *sql.DB
	sq         squirrel.StatementBuilderType
	log        *logger.Logger
	outputPath string
	rows       int
}

// NewLedgerWriter creates a writer that exports to outputPath on Finalize.
func NewLedgerWriter(outputPath string, log *logger.Logger) *LedgerWriter {
	return &LedgerWriter{
		db:         nil,
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		log:        log,
		outputPath: outputPath,
		rows:       0,
	}
}

// Initialize opens the database and creates the ledger table.
func (w *LedgerWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			result_id TEXT,
			pattern TEXT,
			policy TEXT,
			initial_amount DOUBLE,
			time_frame TEXT,
			week INTEGER,
			company TEXT,
			symbol TEXT,
			price DOUBLE,
			shares_bought DOUBLE,
			amount_invested DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create ledger table", err)
	}

	return nil
}

// Write appends every trade of result to the ledger.
func (w *LedgerWriter) Write(result types.SimulationResult) error {
	if w.db == nil {
		return errors.New(errors.ErrCodeExportFailed, "ledger writer not initialized")
	}

	if len(result.Trades) == 0 {
		return nil
	}

	insertQuery := w.sq.
		Insert(ledgerTable).
		Columns(ledgerColumns...)

	for _, trade := range result.Trades {
		insertQuery = insertQuery.Values(
			result.ID,
			result.PatternName,
			string(result.Policy),
			result.InitialAmount.InexactFloat64(),
			result.TimeFrame.String(),
			trade.Week,
			trade.Company,
			trade.Symbol,
			trade.Price.InexactFloat64(),
			trade.SharesBought.InexactFloat64(),
			trade.AmountInvested.InexactFloat64(),
		)
	}

	if _, err := insertQuery.RunWith(w.db).Exec(); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to insert trades of run %s", result.ID)
	}

	w.rows += len(result.Trades)

	return nil
}

// WriteAll writes the trades of every result in the set.
func (w *LedgerWriter) WriteAll(resultSet types.ResultSet) error {
	for _, result := range resultSet.Results {
		if err := w.Write(result); err != nil {
			return err
		}
	}

	return nil
}

// Finalize exports the ledger to the Parquet file and returns its path.
func (w *LedgerWriter) Finalize() (string, error) {
	if w.db == nil {
		return "", errors.New(errors.ErrCodeExportFailed, "ledger writer not initialized")
	}

	escaped := strings.ReplaceAll(w.outputPath, "'", "''")

	_, err := w.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, ledgerTable, escaped))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, "failed to export ledger to Parquet", err)
	}

	if w.log != nil {
		w.log.Info("Exported trade ledger",
			zap.String("path", w.outputPath),
			zap.Int("trades", w.rows),
		)
	}

	return w.outputPath, nil
}

// Close releases the database.
func (w *LedgerWriter) Close() error {
	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to close db connection", err)
	}

	return nil
}
