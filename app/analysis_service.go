package app

import (
	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
	"datagraph/internal/analysis/grouped"
	"datagraph/internal/analysis/pairwise"
)

// AnalysisService runs one-shot analyses against the current registry
// without creating a session
type AnalysisService struct {
	provider RegistryProvider
	policy   pairwise.Policy
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(provider RegistryProvider, policy pairwise.Policy) *AnalysisService {
	return &AnalysisService{provider: provider, policy: policy}
}

// Policy returns the degenerate-variance policy in effect
func (a *AnalysisService) Policy() pairwise.Policy {
	return a.policy
}

// Correlate derives the scatter, fit line and correlation for x against y
func (a *AnalysisService) Correlate(x, y core.VariableKey) (stats.PairwiseSeries, error) {
	return pairwise.DeriveChartSeries(dataset.NewAxisSelection(x, y), a.provider.Registry(), a.policy)
}

// Aggregate averages y per label of the categorical variable labelsVar
func (a *AnalysisService) Aggregate(labelsVar, y core.VariableKey) (stats.BucketSeries, error) {
	reg := a.provider.Registry()
	labels, err := reg.Categorical(labelsVar)
	if err != nil {
		return stats.BucketSeries{Variable: y}, err
	}
	return grouped.Aggregate(labels, y, reg)
}

// AggregateLabels averages y over an explicit label list
func (a *AnalysisService) AggregateLabels(labels []string, y core.VariableKey) (stats.BucketSeries, error) {
	return grouped.Aggregate(labels, y, a.provider.Registry())
}

// Catalog lists the variables of the current registry
func (a *AnalysisService) Catalog() []VariableSummary {
	return BuildCatalog(a.provider.Registry())
}
