package dataset

import (
	"sort"

	"datagraph/domain/core"
)

// Shape tags which analysis a variable can feed
type Shape string

const (
	// ShapeFlat is an ordered sequence of observations paired by index (pairwise pipeline)
	ShapeFlat Shape = "flat"
	// ShapeBucketed maps bucket labels to raw observations (grouped pipeline)
	ShapeBucketed Shape = "bucketed"
	// ShapeCategorical is an ordered list of bucket labels, e.g. survey waves
	ShapeCategorical Shape = "categorical"
)

// FlatSeries is a flat ordered sequence of real numbers
type FlatSeries []float64

// BucketedSeries maps a bucket label to its raw observations
type BucketedSeries map[string][]float64

// Categorical is an ordered sequence of bucket labels
type Categorical []string

// Variable is a named dataset entry. Exactly one payload field is populated,
// selected by Shape. Variables are read-only once built.
type Variable struct {
	Key     core.VariableKey `json:"key"`
	Shape   Shape            `json:"shape"`
	Source  string           `json:"source,omitempty"`
	Flat    FlatSeries       `json:"flat,omitempty"`
	Buckets BucketedSeries   `json:"buckets,omitempty"`
	Labels  Categorical      `json:"labels,omitempty"`
}

// NewFlatVariable copies values into a flat variable
func NewFlatVariable(key core.VariableKey, values []float64) Variable {
	return Variable{
		Key:   key,
		Shape: ShapeFlat,
		Flat:  append(FlatSeries(nil), values...),
	}
}

// NewBucketedVariable copies buckets into a bucketed variable.
// A nil bucket is preserved as a present-but-empty label.
func NewBucketedVariable(key core.VariableKey, buckets map[string][]float64) Variable {
	copied := make(BucketedSeries, len(buckets))
	for label, obs := range buckets {
		copied[label] = append([]float64(nil), obs...)
	}
	return Variable{
		Key:     key,
		Shape:   ShapeBucketed,
		Buckets: copied,
	}
}

// NewCategoricalVariable copies labels into a categorical variable
func NewCategoricalVariable(key core.VariableKey, labels []string) Variable {
	return Variable{
		Key:    key,
		Shape:  ShapeCategorical,
		Labels: append(Categorical(nil), labels...),
	}
}

// WithSource returns a copy tagged with the source it was loaded from
func (v Variable) WithSource(source string) Variable {
	v.Source = source
	return v
}

// Len returns the number of observations, buckets, or labels depending on shape
func (v Variable) Len() int {
	switch v.Shape {
	case ShapeFlat:
		return len(v.Flat)
	case ShapeBucketed:
		return len(v.Buckets)
	case ShapeCategorical:
		return len(v.Labels)
	}
	return 0
}

// AsFlat resolves the variable for the pairwise pipeline
func (v Variable) AsFlat() (FlatSeries, error) {
	if v.Shape != ShapeFlat {
		return nil, core.NewShapeError(v.Key, string(ShapeFlat), string(v.Shape))
	}
	return v.Flat, nil
}

// AsBucketed resolves the variable for the grouped pipeline
func (v Variable) AsBucketed() (BucketedSeries, error) {
	if v.Shape != ShapeBucketed {
		return nil, core.NewShapeError(v.Key, string(ShapeBucketed), string(v.Shape))
	}
	return v.Buckets, nil
}

// AsCategorical resolves the variable as a bucket label axis
func (v Variable) AsCategorical() (Categorical, error) {
	if v.Shape != ShapeCategorical {
		return nil, core.NewShapeError(v.Key, string(ShapeCategorical), string(v.Shape))
	}
	return v.Labels, nil
}

// Bucket returns the observations recorded under label.
// ok is false when the label is missing entirely.
func (b BucketedSeries) Bucket(label string) (obs []float64, ok bool) {
	obs, ok = b[label]
	return obs, ok
}

// SortedLabels returns the bucket labels in lexical order
func (b BucketedSeries) SortedLabels() []string {
	labels := make([]string, 0, len(b))
	for label := range b {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
