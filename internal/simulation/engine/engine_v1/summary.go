package engine

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// summarize picks the best and worst results by percentage gain.
// Ties keep the earlier result.
func summarize(results []types.SimulationResult) optional.Option[types.Summary] {
	if len(results) == 0 {
		return optional.None[types.Summary]()
	}

	best, worst := results[0], results[0]

	for _, result := range results[1:] {
		if result.PercentageGain.GreaterThan(best.PercentageGain) {
			best = result
		}

		if result.PercentageGain.LessThan(worst.PercentageGain) {
			worst = result
		}
	}

	return optional.Some(types.Summary{Best: best, Worst: worst})
}
