package pairwise

import (
	"datagraph/domain/core"
	"datagraph/domain/stats"
)

// BestFitLine computes the ordinary-least-squares line through (x[i], y[i]).
//
//	slope     = Σ(x−x̄)(y−ȳ) / Σ(x−x̄)²
//	intercept = ȳ − slope·x̄
//
// Points holds the line evaluated at every source x, in input order.
// A constant x has no defined slope and yields core.ErrZeroVariance.
func BestFitLine(x, y []float64) (stats.FitLine, error) {
	s, err := pairSums(x, y)
	if err != nil {
		return stats.FitLine{}, err
	}

	spread := s.spreadX()
	if spread == 0 {
		return stats.FitLine{}, core.ErrZeroVariance
	}

	slope := s.sxy / spread
	line := stats.FitLine{
		Slope:     slope,
		Intercept: s.my - slope*s.mx,
	}
	if err := checkDerived(line.Slope, line.Intercept); err != nil {
		return stats.FitLine{}, err
	}
	line.Points = lineThrough(line, x)
	return line, nil
}

func lineThrough(line stats.FitLine, x []float64) []stats.Point {
	points := make([]stats.Point, len(x))
	for i, xi := range x {
		points[i] = stats.Point{X: xi, Y: line.At(xi)}
	}
	return points
}
