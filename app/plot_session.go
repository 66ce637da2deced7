package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"datagraph/domain/core"
	"datagraph/domain/dataset"
	"datagraph/domain/stats"
	"datagraph/internal/analysis/grouped"
	"datagraph/internal/analysis/pairwise"
	"datagraph/internal/metrics"
)

// PlotKind selects which pipeline a session drives
type PlotKind string

const (
	PlotPairwise PlotKind = "pairwise"
	PlotGrouped  PlotKind = "grouped"
)

// ParsePlotKind validates a plot kind supplied by a client
func ParsePlotKind(s string) (PlotKind, error) {
	switch PlotKind(s) {
	case PlotPairwise, PlotGrouped:
		return PlotKind(s), nil
	}
	return "", fmt.Errorf("unknown plot kind %q", s)
}

// ErrChartTypeFixed is returned when toggling the chart type of a pairwise plot
var ErrChartTypeFixed = errors.New("chart type can only be toggled on grouped plots")

// RegistryProvider hands out the current dataset registry
type RegistryProvider interface {
	Registry() *dataset.Registry
}

// chartKey identifies the inputs a derived chart depends on
type chartKey struct {
	selection dataset.AxisSelection
	chartType stats.ChartType
	version   core.RegistryVersion
}

func (k chartKey) equal(o chartKey) bool {
	return k.selection.Equal(o.selection) && k.chartType == o.chartType && k.version == o.version
}

// PlotSession owns the axis selection of one chart and recomputes the
// derived chart only when the selection, chart type, or registry version
// changes.
type PlotSession struct {
	ID        core.SessionID
	Kind      PlotKind
	CreatedAt time.Time

	mu        sync.Mutex
	provider  RegistryProvider
	policy    pairwise.Policy
	selection dataset.AxisSelection
	chartType stats.ChartType
	updatedAt time.Time
	lastSeen  time.Time

	cached   bool
	cacheKey chartKey
	chart    stats.Chart
	chartErr error
	computes int
}

// NewPlotSession creates a session with no selection
func NewPlotSession(kind PlotKind, provider RegistryProvider, policy pairwise.Policy) *PlotSession {
	chartType := stats.ChartScatter
	if kind == PlotGrouped {
		chartType = stats.ChartLine
	}
	now := time.Now()
	return &PlotSession{
		ID:        core.NewSessionID(),
		Kind:      kind,
		CreatedAt: now,
		provider:  provider,
		policy:    policy,
		chartType: chartType,
		updatedAt: now,
		lastSeen:  now,
	}
}

// Selection returns the current axis selection
func (s *PlotSession) Selection() dataset.AxisSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// State classifies the current selection
func (s *PlotSession) State() dataset.SelectionState {
	return s.Selection().State()
}

// UpdatedAt returns when the selection last changed
func (s *PlotSession) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// LastSeen returns when the chart was last requested or the selection
// last changed, whichever is later
func (s *PlotSession) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Drop assigns key to axis. The variable must exist and have a shape the
// session's pipeline accepts on that axis; otherwise the selection is left
// untouched.
func (s *PlotSession) Drop(axis core.Axis, key core.VariableKey) (stats.Chart, error) {
	reg := s.provider.Registry()
	if _, err := reg.Resolve(key, s.acceptedShape(axis)); err != nil {
		return stats.Chart{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSelection(s.selection.With(axis, key))
	return s.chartLocked(reg)
}

// Clear unassigns axis
func (s *PlotSession) Clear(axis core.Axis) (stats.Chart, error) {
	reg := s.provider.Registry()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setSelection(s.selection.Without(axis))
	return s.chartLocked(reg)
}

// Chart returns the derived chart for the current selection
func (s *PlotSession) Chart() (stats.Chart, error) {
	reg := s.provider.Registry()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartLocked(reg)
}

// ToggleChartType flips a grouped plot between line and bar
func (s *PlotSession) ToggleChartType() (stats.Chart, error) {
	if s.Kind != PlotGrouped {
		return stats.Chart{}, ErrChartTypeFixed
	}
	reg := s.provider.Registry()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chartType = grouped.Toggle(s.chartType)
	return s.chartLocked(reg)
}

// Computations reports how many times the chart has been derived
func (s *PlotSession) Computations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computes
}

func (s *PlotSession) acceptedShape(axis core.Axis) dataset.Shape {
	if s.Kind == PlotGrouped {
		if axis == core.AxisX {
			return dataset.ShapeCategorical
		}
		return dataset.ShapeBucketed
	}
	return dataset.ShapeFlat
}

func (s *PlotSession) setSelection(sel dataset.AxisSelection) {
	if sel.Equal(s.selection) {
		return
	}
	s.selection = sel
	s.updatedAt = time.Now()
	s.lastSeen = s.updatedAt
}

func (s *PlotSession) chartLocked(reg *dataset.Registry) (stats.Chart, error) {
	s.lastSeen = time.Now()
	key := chartKey{selection: s.selection, chartType: s.chartType, version: reg.Version()}
	if s.cached && key.equal(s.cacheKey) {
		return s.chart, s.chartErr
	}

	s.chart, s.chartErr = s.derive(reg)
	s.cacheKey = key
	s.cached = true
	s.computes++
	metrics.ChartComputations.WithLabelValues(string(s.Kind)).Inc()
	return s.chart, s.chartErr
}

func (s *PlotSession) derive(reg *dataset.Registry) (stats.Chart, error) {
	if s.Kind == PlotGrouped {
		return grouped.DeriveGroupedChart(s.selection, reg, s.chartType)
	}
	series, err := pairwise.DeriveChartSeries(s.selection, reg, s.policy)
	if err != nil {
		return stats.Chart{}, err
	}
	return pairwise.ToChart(s.selection, series), nil
}
