package report

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Stats is the YAML export of a result set. Trade ledgers are left to the LedgerWriter.
type Stats struct {
	GeneratedAt time.Time                `yaml:"generated_at"`
	Runs        int                      `yaml:"runs"`
	Results     []types.SimulationResult `yaml:"results"`
	Best        *types.SimulationResult  `yaml:"best,omitempty"`
	Worst       *types.SimulationResult  `yaml:"worst,omitempty"`
}

// NewStats builds the export for resultSet, stamped with generatedAt.
func NewStats(resultSet types.ResultSet, generatedAt time.Time) Stats {
	stats := Stats{
		GeneratedAt: generatedAt.UTC(),
		Runs:        len(resultSet.Results),
		Results:     resultSet.Results,
		Best:        nil,
		Worst:       nil,
	}

	if stats.Results == nil {
		stats.Results = []types.SimulationResult{}
	}

	if resultSet.Summary.IsSome() {
		summary := resultSet.Summary.Unwrap()
		stats.Best = &summary.Best
		stats.Worst = &summary.Worst
	}

	return stats
}

// WriteStats writes the result figures of resultSet to path as YAML.
func WriteStats(path string, resultSet types.ResultSet) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(NewStats(resultSet, time.Now()))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to marshal simulation stats to YAML", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write simulation stats to file", err)
	}

	return nil
}
