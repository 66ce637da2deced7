package pairwise

import (
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
)

// DeriveChartSeries resolves an axis selection against the registry and
// produces the scatter points, the fit-line points and the correlation.
//
// An incomplete selection is not an error: it yields empty point and line
// sequences and no correlation. Both variables must be flat series of equal,
// nonzero length.
func DeriveChartSeries(sel dataset.AxisSelection, reg *dataset.Registry, policy Policy) (stats.PairwiseSeries, error) {
	series := stats.PairwiseSeries{
		Points: []stats.Point{},
		Line:   []stats.Point{},
	}

	xKey, yKey, ok := sel.Complete()
	if !ok {
		return series, nil
	}
	series.X, series.Y = xKey, yKey

	xs, err := reg.Flat(xKey)
	if err != nil {
		return series, err
	}
	ys, err := reg.Flat(yKey)
	if err != nil {
		return series, err
	}
	if len(xs) != len(ys) {
		return series, core.NewLengthError(len(xs), len(ys))
	}
	if len(xs) == 0 {
		return series, core.ErrEmptyInput
	}

	corr, err := policy.Correlate(xs, ys)
	if err != nil {
		return series, err
	}
	fit, err := policy.Fit(xs, ys)
	if err != nil {
		return series, err
	}

	points := make([]stats.Point, len(xs))
	for i := range xs {
		points[i] = stats.Point{X: xs[i], Y: ys[i]}
	}

	series.Points = points
	series.Correlation = &corr
	if fit != nil {
		series.Fit = fit
		series.Line = fit.Points
	}
	return series, nil
}

// ToChart converts derived series into the renderer structure: one scatter
// dataset labelled with the Y variable and one line dataset for the fit.
func ToChart(sel dataset.AxisSelection, series stats.PairwiseSeries) stats.Chart {
	label := sel.Title(core.AxisY)
	return stats.Chart{
		Type:   stats.ChartScatter,
		State:  string(sel.State()),
		XTitle: sel.Title(core.AxisX),
		YTitle: label,
		Datasets: []stats.Dataset{
			{Label: label, Kind: stats.ChartScatter, Points: series.Points},
			{Label: "Line of Best Fit", Kind: stats.ChartLine, Points: series.Line},
		},
		Correlation: series.Correlation,
	}
}
