package pairwise

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Significance returns the two-sided p-value for r observed over n pairs,
// using t = r·sqrt((n−2)/(1−r²)) against Student's t with n−2 degrees of
// freedom. ok is false when n < 3.
func Significance(r float64, n int) (p float64, ok bool) {
	if n < 3 || math.IsNaN(r) {
		return 0, false
	}
	if math.Abs(r) >= 1 {
		return 0, true
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))
	return math.Min(1, math.Max(0, p)), true
}
