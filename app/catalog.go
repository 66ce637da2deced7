package app

import (
	"datagraph/domain/core"
	"datagraph/domain/dataset"

	"github.com/montanaflynn/stats"
)

// SummaryStats describes a flat variable for the variable palette
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// VariableSummary is one draggable entry of the variable palette
type VariableSummary struct {
	Key    core.VariableKey `json:"key"`
	Shape  dataset.Shape    `json:"shape"`
	Source string           `json:"source,omitempty"`
	Length int              `json:"length"`
	Labels []string         `json:"labels,omitempty"`
	Stats  *SummaryStats    `json:"stats,omitempty"`
}

// BuildCatalog lists every registry variable in registration order
func BuildCatalog(reg *dataset.Registry) []VariableSummary {
	vars := reg.Variables()
	out := make([]VariableSummary, 0, len(vars))
	for _, v := range vars {
		summary := VariableSummary{
			Key:    v.Key,
			Shape:  v.Shape,
			Source: v.Source,
			Length: v.Len(),
		}
		switch v.Shape {
		case dataset.ShapeFlat:
			summary.Stats = summarize(v.Flat)
		case dataset.ShapeBucketed:
			summary.Labels = v.Buckets.SortedLabels()
		case dataset.ShapeCategorical:
			summary.Labels = append([]string(nil), v.Labels...)
		}
		out = append(out, summary)
	}
	return out
}

// FilterCatalog keeps entries with the given shape; an empty shape keeps all
func FilterCatalog(entries []VariableSummary, shape dataset.Shape) []VariableSummary {
	if shape == "" {
		return entries
	}
	var out []VariableSummary
	for _, e := range entries {
		if e.Shape == shape {
			out = append(out, e)
		}
	}
	return out
}

func summarize(values []float64) *SummaryStats {
	if len(values) == 0 {
		return nil
	}
	data := stats.Float64Data(values)

	mean, err := data.Mean()
	if err != nil {
		return nil
	}
	median, _ := data.Median()
	stdDev, _ := data.StandardDeviation()
	min, _ := data.Min()
	max, _ := data.Max()

	return &SummaryStats{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
	}
}
