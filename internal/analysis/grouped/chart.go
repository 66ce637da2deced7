package grouped

import (
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
)

// Toggle switches between line and bar rendering
func Toggle(t stats.ChartType) stats.ChartType {
	if t == stats.ChartBar {
		return stats.ChartLine
	}
	return stats.ChartBar
}

// NormalizeChartType maps anything other than bar to line
func NormalizeChartType(t stats.ChartType) stats.ChartType {
	if t == stats.ChartBar {
		return stats.ChartBar
	}
	return stats.ChartLine
}

// DeriveGroupedChart resolves the X axis as the bucket label variable and
// the Y axis as the bucketed variable, then builds one averaged dataset.
//
// An incomplete selection yields a chart with no datasets. A series with any
// undefined bucket also yields no datasets; Missing lists the offending
// labels so the caller can explain the empty chart.
func DeriveGroupedChart(sel dataset.AxisSelection, reg *dataset.Registry, chartType stats.ChartType) (stats.Chart, error) {
	chartType = NormalizeChartType(chartType)
	chart := stats.Chart{
		Type:     chartType,
		State:    string(sel.State()),
		XTitle:   sel.Title(core.AxisX),
		YTitle:   sel.Title(core.AxisY),
		Datasets: []stats.Dataset{},
	}

	xKey, yKey, ok := sel.Complete()
	if !ok {
		return chart, nil
	}

	labels, err := reg.Categorical(xKey)
	if err != nil {
		return chart, err
	}
	series, err := Aggregate(labels, yKey, reg)
	if err != nil {
		return chart, err
	}
	if !Displayable(series) {
		chart.Missing = series.Missing()
		return chart, nil
	}

	chart.Labels = FormatLabels(labels)
	chart.Datasets = append(chart.Datasets, stats.Dataset{
		Label:  yKey.String(),
		Kind:   chartType,
		Values: Values(series),
	})
	return chart, nil
}
