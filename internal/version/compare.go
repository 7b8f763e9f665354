package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
)

// CheckVersionCompatibility checks if a scenario file written for scenarioVersion can run on
// engineVersion. Returns nil if compatible.
//
// Compatibility Rules:
//   - An empty scenario version is always accepted
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major and minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckVersionCompatibility(engineVersion, scenarioVersion string) error {
	if scenarioVersion == "" {
		return nil
	}

	engineVersion = strings.TrimPrefix(engineVersion, "v")
	scenarioVersion = strings.TrimPrefix(scenarioVersion, "v")

	if engineVersion == "main" || scenarioVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	scenarioSemver, err := semver.NewVersion(scenarioVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid scenario version '%s'", scenarioVersion)
	}

	if engineSemver.Major() != scenarioSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: engine is %d.x.x but scenario requires %d.x.x",
			engineSemver.Major(), scenarioSemver.Major())
	}

	if engineSemver.Minor() != scenarioSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "minor version mismatch: engine is %d.%d.x but scenario requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			scenarioSemver.Major(), scenarioSemver.Minor())
	}

	return nil
}
