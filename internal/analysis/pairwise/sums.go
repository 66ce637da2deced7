package pairwise

import (
	"fmt"
	"math"

	"datagraph/domain/core"

	"gonum.org/v1/gonum/floats"
)

// sums holds the centred totals shared by Pearson and BestFitLine. Centring
// on the means first keeps large common offsets from cancelling away the
// variation.
type sums struct {
	n      float64
	mx     float64
	my     float64
	sxy    float64 // Σ(x−x̄)(y−ȳ)
	sxx    float64 // Σ(x−x̄)²
	syy    float64 // Σ(y−ȳ)²
	constX bool
	constY bool
}

func pairSums(x, y []float64) (sums, error) {
	if len(x) != len(y) {
		return sums{}, core.NewLengthError(len(x), len(y))
	}
	if len(x) == 0 {
		return sums{}, core.ErrEmptyInput
	}
	if err := checkFinite(x); err != nil {
		return sums{}, err
	}
	if err := checkFinite(y); err != nil {
		return sums{}, err
	}

	n := float64(len(x))
	s := sums{
		n:      n,
		mx:     floats.Sum(x) / n,
		my:     floats.Sum(y) / n,
		constX: floats.Max(x) == floats.Min(x),
		constY: floats.Max(y) == floats.Min(y),
	}
	dx := centred(x, s.mx)
	dy := centred(y, s.my)
	s.sxy = floats.Dot(dx, dy)
	s.sxx = floats.Dot(dx, dx)
	s.syy = floats.Dot(dy, dy)

	if err := checkDerived(s.mx, s.my, s.sxy, s.sxx, s.syy); err != nil {
		return sums{}, err
	}
	return s, nil
}

func centred(values []float64, mean float64) []float64 {
	d := make([]float64, len(values))
	copy(d, values)
	floats.AddConst(-mean, d)
	return d
}

// spreadX returns Σ(x−x̄)², exactly zero for a constant x
func (s sums) spreadX() float64 {
	if s.constX {
		return 0
	}
	return s.sxx
}

// spreadY returns Σ(y−ȳ)², exactly zero for a constant y
func (s sums) spreadY() float64 {
	if s.constY {
		return 0
	}
	return s.syy
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at index %d: %v", core.ErrInvalidObservation, i, v)
		}
	}
	return nil
}

// checkDerived rejects intermediate results that overflowed even though
// every input was finite.
func checkDerived(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: overflow in derived statistic", core.ErrInvalidObservation)
		}
	}
	return nil
}
