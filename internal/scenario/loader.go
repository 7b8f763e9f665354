package scenario

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/rxtech-lab/argo-rotation/pkg/utils"
)

// Load reads a scenario file. Files ending in .yaml or .yml use the YAML format,
// everything else the line-oriented DSL.
func Load(path string) (types.Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.Scenario{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to open scenario %s", path)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(file)
	default:
		return ParseDSL(file)
	}
}

// Schema returns the JSON schema of the YAML scenario format.
func Schema() (string, error) {
	return utils.GetSchemaFromConfig(&Document{})
}
