package pairwise

import (
	"math"

	"datagraph/domain/core"
)

// Pearson computes the Pearson correlation coefficient
//
//	r = Σ(x−x̄)(y−ȳ) / sqrt(Σ(x−x̄)²·Σ(y−ȳ)²)
//
// It returns core.ErrZeroVariance when either series is constant and
// core.ErrInvalidObservation when the inputs overflow the computation.
func Pearson(x, y []float64) (float64, error) {
	s, err := pairSums(x, y)
	if err != nil {
		return 0, err
	}

	denominator := math.Sqrt(s.spreadX()) * math.Sqrt(s.spreadY())
	if denominator == 0 {
		return 0, core.ErrZeroVariance
	}

	r := s.sxy / denominator
	if err := checkDerived(r); err != nil {
		return 0, err
	}
	return math.Max(-1, math.Min(1, r)), nil
}
