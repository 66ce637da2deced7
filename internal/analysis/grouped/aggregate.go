package grouped

import (
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
)

// Aggregate averages registry[yVar][label] for every label, in label order.
// yVar must be a bucketed variable.
func Aggregate(labels []string, yVar core.VariableKey, reg *dataset.Registry) (stats.BucketSeries, error) {
	buckets, err := reg.Bucketed(yVar)
	if err != nil {
		return stats.BucketSeries{Variable: yVar}, err
	}
	return AggregateBuckets(labels, yVar, buckets), nil
}

// AggregateBuckets is Aggregate over an already resolved bucketed series.
// Complete is true only when there is at least one label and every label
// has a defined average.
func AggregateBuckets(labels []string, yVar core.VariableKey, buckets dataset.BucketedSeries) stats.BucketSeries {
	series := stats.BucketSeries{
		Variable: yVar,
		Entries:  make([]stats.BucketAverage, len(labels)),
		Complete: len(labels) > 0,
	}

	for i, label := range labels {
		series.Entries[i].Label = label
		obs, ok := buckets.Bucket(label)
		if !ok {
			series.Complete = false
			continue
		}
		mean, ok := Average(obs)
		if !ok {
			series.Complete = false
			continue
		}
		series.Entries[i].Value = &mean
	}
	return series
}

// Displayable applies the all-or-nothing rule: one absent bucket suppresses
// the whole series
func Displayable(series stats.BucketSeries) bool {
	return series.Complete
}

// Values returns the averages in label order. It must only be called on a
// displayable series.
func Values(series stats.BucketSeries) []float64 {
	values := make([]float64, len(series.Entries))
	for i, e := range series.Entries {
		if e.Value != nil {
			values[i] = *e.Value
		}
	}
	return values
}
