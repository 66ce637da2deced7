package pairwise

import (
	"errors"
	"fmt"
	"strings"

	"datagraph/domain/core"
	"datagraph/domain/stats"
)

// Policy decides what a degenerate (zero-variance) pair produces
type Policy int

const (
	// PolicySentinelZero reports r = 0 and a flat fit through mean(Y).
	// "No variance" and "no relationship" become indistinguishable except
	// through CorrelationResult.Degenerate.
	PolicySentinelZero Policy = iota
	// PolicyUndefined reports no coefficient and no fit line
	PolicyUndefined
)

// ParsePolicy accepts "zero", "sentinel_zero" or "undefined"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero", "sentinel_zero", "sentinel-zero":
		return PolicySentinelZero, nil
	case "undefined", "none", "null":
		return PolicyUndefined, nil
	}
	return PolicySentinelZero, fmt.Errorf("unknown degenerate policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyUndefined {
		return "undefined"
	}
	return "sentinel_zero"
}

// Correlate computes r for x and y and resolves degenerate variance per the
// policy. Input errors (length mismatch, empty input, non-finite values)
// are returned unchanged.
func (p Policy) Correlate(x, y []float64) (stats.CorrelationResult, error) {
	result := stats.CorrelationResult{N: len(x)}

	r, err := Pearson(x, y)
	switch {
	case errors.Is(err, core.ErrZeroVariance):
		result.Degenerate = true
		if p == PolicySentinelZero {
			zero := 0.0
			result.Coefficient = &zero
		}
		return result, nil
	case err != nil:
		return stats.CorrelationResult{}, err
	}

	result.Coefficient = &r
	if pv, ok := Significance(r, len(x)); ok {
		result.PValue = &pv
	}
	return result, nil
}

// Fit computes the best-fit line for x and y and resolves a constant x per
// the policy. The returned line is nil under PolicyUndefined when x is
// constant.
func (p Policy) Fit(x, y []float64) (*stats.FitLine, error) {
	line, err := BestFitLine(x, y)
	switch {
	case errors.Is(err, core.ErrZeroVariance):
		if p == PolicyUndefined {
			return nil, nil
		}
		s, _ := pairSums(x, y)
		flat := stats.FitLine{Slope: 0, Intercept: s.my}
		flat.Points = lineThrough(flat, x)
		return &flat, nil
	case err != nil:
		return nil, err
	}
	return &line, nil
}
