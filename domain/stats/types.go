package stats

import "datagraph/domain/core"

// Point is a plot-ready (x, y) pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FitLine is an ordinary-least-squares line plus its points evaluated at
// each source x
type FitLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Points    []Point `json:"points,omitempty"`
}

// At evaluates the line at x
func (f FitLine) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// CorrelationResult carries a Pearson coefficient. Coefficient is nil when
// the value is undefined; Degenerate marks inputs with zero variance, in
// which case Coefficient (if set) holds the sentinel zero.
type CorrelationResult struct {
	Coefficient *float64 `json:"coefficient"`
	Degenerate  bool     `json:"degenerate"`
	N           int      `json:"n"`
	PValue      *float64 `json:"p_value,omitempty"`
}

// Defined reports whether a coefficient is available
func (c CorrelationResult) Defined() bool {
	return c.Coefficient != nil
}

// Value returns the coefficient, or ok=false when undefined
func (c CorrelationResult) Value() (r float64, ok bool) {
	if c.Coefficient == nil {
		return 0, false
	}
	return *c.Coefficient, true
}

// PairwiseSeries is the derived output of the pairwise pipeline for one
// axis selection. All fields are empty when the selection is incomplete.
type PairwiseSeries struct {
	X           core.VariableKey   `json:"x,omitempty"`
	Y           core.VariableKey   `json:"y,omitempty"`
	Points      []Point            `json:"points"`
	Line        []Point            `json:"line"`
	Fit         *FitLine           `json:"fit,omitempty"`
	Correlation *CorrelationResult `json:"correlation,omitempty"`
}

// Empty reports whether there is nothing to draw
func (p PairwiseSeries) Empty() bool {
	return len(p.Points) == 0
}

// BucketAverage is one bucket's mean; Value is nil when undefined
type BucketAverage struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// BucketSeries holds one entry per bucket label, in label order
type BucketSeries struct {
	Variable core.VariableKey `json:"variable"`
	Entries  []BucketAverage  `json:"entries"`
	Complete bool             `json:"complete"`
}

// Missing lists labels whose average is undefined
func (s BucketSeries) Missing() []string {
	var missing []string
	for _, e := range s.Entries {
		if e.Value == nil {
			missing = append(missing, e.Label)
		}
	}
	return missing
}

// ChartType selects how a renderer draws a dataset
type ChartType string

const (
	ChartScatter ChartType = "scatter"
	ChartLine    ChartType = "line"
	ChartBar     ChartType = "bar"
)

// Dataset is one named series of a chart. Point-based datasets fill Points;
// label-based datasets fill Values aligned with Chart.Labels.
type Dataset struct {
	Label  string    `json:"label"`
	Kind   ChartType `json:"kind"`
	Points []Point   `json:"points,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// Chart is the structure handed to the rendering collaborator
type Chart struct {
	Type        ChartType          `json:"type"`
	State       string             `json:"state"`
	XTitle      string             `json:"x_title"`
	YTitle      string             `json:"y_title"`
	Labels      []string           `json:"labels,omitempty"`
	Datasets    []Dataset          `json:"datasets"`
	Correlation *CorrelationResult `json:"correlation,omitempty"`
	Missing     []string           `json:"missing,omitempty"`
}

// Drawable reports whether any dataset has something to render
func (c Chart) Drawable() bool {
	for _, d := range c.Datasets {
		if len(d.Points) > 0 || len(d.Values) > 0 {
			return true
		}
	}
	return false
}
