// Package grouped implements the grouped average pipeline: per-bucket means
// over a bucketed variable, emitted only when every bucket is defined.
package grouped

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Average returns the arithmetic mean of obs. ok is false when obs is
// missing, empty, or contains a non-finite value; a missing bucket is never
// coerced to zero.
func Average(obs []float64) (mean float64, ok bool) {
	if len(obs) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(obs)
	if err != nil || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, false
	}
	return mean, true
}
