package grouped

import (
	"errors"
	"math"
	"testing"

	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name string
		obs  []float64
		want float64
		ok   bool
	}{
		{"three values", []float64{1, 2, 3}, 2, true},
		{"two values", []float64{4, 6}, 5, true},
		{"single", []float64{-2.5}, -2.5, true},
		{"nil", nil, 0, false},
		{"empty", []float64{}, 0, false},
		{"nan", []float64{1, math.NaN()}, 0, false},
		{"inf", []float64{math.Inf(-1), 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Average(tt.obs)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func bucketRegistry(buckets map[string][]float64) *dataset.Registry {
	return dataset.NewBuilder().AddAll(
		dataset.NewBucketedVariable("V", buckets),
		dataset.NewCategoricalVariable("Time", []string{"T1", "T2"}),
		dataset.NewFlatVariable("Flat", []float64{1, 2}),
	).Build()
}

func TestAggregate_AllDefined(t *testing.T) {
	reg := bucketRegistry(map[string][]float64{"T1": {1, 2, 3}, "T2": {4, 6}})

	series, err := Aggregate([]string{"T1", "T2"}, "V", reg)
	require.NoError(t, err)

	require.Len(t, series.Entries, 2)
	assert.Equal(t, "T1", series.Entries[0].Label)
	require.NotNil(t, series.Entries[0].Value)
	assert.InDelta(t, 2.0, *series.Entries[0].Value, 1e-12)
	assert.Equal(t, "T2", series.Entries[1].Label)
	require.NotNil(t, series.Entries[1].Value)
	assert.InDelta(t, 5.0, *series.Entries[1].Value, 1e-12)

	assert.True(t, Displayable(series))
	assert.Equal(t, []float64{2, 5}, Values(series))
	assert.Empty(t, series.Missing())
}

func TestAggregate_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		buckets map[string][]float64
	}{
		{"empty bucket", map[string][]float64{"T1": {1, 2, 3}, "T2": {}}},
		{"missing bucket", map[string][]float64{"T1": {1, 2, 3}}},
		{"nil bucket", map[string][]float64{"T1": {1, 2, 3}, "T2": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Aggregate([]string{"T1", "T2"}, "V", bucketRegistry(tt.buckets))
			require.NoError(t, err)

			require.NotNil(t, series.Entries[0].Value)
			assert.InDelta(t, 2.0, *series.Entries[0].Value, 1e-12)
			assert.Nil(t, series.Entries[1].Value, "absent, never zero")

			assert.False(t, Displayable(series))
			assert.Equal(t, []string{"T2"}, series.Missing())
		})
	}
}

func TestAggregate_NoLabels(t *testing.T) {
	series, err := Aggregate(nil, "V", bucketRegistry(map[string][]float64{"T1": {1}}))
	require.NoError(t, err)
	assert.Empty(t, series.Entries)
	assert.False(t, Displayable(series))
}

func TestAggregate_Errors(t *testing.T) {
	reg := bucketRegistry(map[string][]float64{"T1": {1}})

	_, err := Aggregate([]string{"T1"}, "Flat", reg)
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))

	_, err = Aggregate([]string{"T1"}, "Nope", reg)
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"Time1":    "Time 1",
		"Time12":   "Time 12",
		"Time 1":   "Time 1",
		"T2":       "T 2",
		"Baseline": "Baseline",
		"1":        "1",
		"":         "",
		"Wave-3":   "Wave -3",
	}
	for input, want := range tests {
		assert.Equal(t, want, FormatLabel(input), input)
	}
	assert.Equal(t, []string{"Time 1", "Time 2"}, FormatLabels([]string{"Time1", "Time2"}))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, stats.ChartBar, Toggle(stats.ChartLine))
	assert.Equal(t, stats.ChartLine, Toggle(stats.ChartBar))
	assert.Equal(t, stats.ChartBar, Toggle(""))
	assert.Equal(t, stats.ChartLine, NormalizeChartType(stats.ChartScatter))
}

func groupedRegistry() *dataset.Registry {
	return dataset.NewBuilder().AddAll(
		dataset.NewCategoricalVariable("Time", []string{"Time1", "Time2", "Time3"}),
		dataset.NewBucketedVariable("Happiness", map[string][]float64{
			"Time1": {3, 5},
			"Time2": {4, 4, 7},
			"Time3": {6},
		}),
		dataset.NewBucketedVariable("Sadness", map[string][]float64{
			"Time1": {2},
			"Time3": {1},
		}),
	).Build()
}

func TestDeriveGroupedChart_Complete(t *testing.T) {
	sel := dataset.NewAxisSelection("Time", "Happiness")

	chart, err := DeriveGroupedChart(sel, groupedRegistry(), stats.ChartBar)
	require.NoError(t, err)

	assert.Equal(t, stats.ChartBar, chart.Type)
	assert.Equal(t, []string{"Time 1", "Time 2", "Time 3"}, chart.Labels)
	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, "Happiness", chart.Datasets[0].Label)
	assert.InDeltaSlice(t, []float64{4, 5, 6}, chart.Datasets[0].Values, 1e-12)
	assert.True(t, chart.Drawable())
}

func TestDeriveGroupedChart_Suppressed(t *testing.T) {
	sel := dataset.NewAxisSelection("Time", "Sadness")

	chart, err := DeriveGroupedChart(sel, groupedRegistry(), stats.ChartLine)
	require.NoError(t, err)
	assert.Empty(t, chart.Datasets)
	assert.Empty(t, chart.Labels)
	assert.Equal(t, []string{"Time2"}, chart.Missing)
	assert.False(t, chart.Drawable())
}

func TestDeriveGroupedChart_PartialSelection(t *testing.T) {
	sel := dataset.AxisSelection{}.With(core.AxisY, "Happiness")

	chart, err := DeriveGroupedChart(sel, groupedRegistry(), stats.ChartLine)
	require.NoError(t, err)
	assert.Equal(t, string(dataset.PartialSelection), chart.State)
	assert.Equal(t, "X-Axis", chart.XTitle)
	assert.False(t, chart.Drawable())
}

func TestDeriveGroupedChart_XMustBeLabels(t *testing.T) {
	sel := dataset.NewAxisSelection("Happiness", "Happiness")

	_, err := DeriveGroupedChart(sel, groupedRegistry(), stats.ChartLine)
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}
