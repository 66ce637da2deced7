package dataset

import (
	"errors"
	"testing"

	"datagraph/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *Registry {
	return NewBuilder().AddAll(
		NewFlatVariable("PositiveMood", []float64{3, 4, 5}),
		NewBucketedVariable("LifeSatisfaction", map[string][]float64{"Time1": {1, 2}, "Time2": {3}}),
		NewCategoricalVariable("Time", []string{"Time1", "Time2"}),
	).Build()
}

func TestRegistry_ResolvesByShape(t *testing.T) {
	reg := sampleRegistry()

	flat, err := reg.Flat("PositiveMood")
	require.NoError(t, err)
	assert.Equal(t, FlatSeries{3, 4, 5}, flat)

	buckets, err := reg.Bucketed("LifeSatisfaction")
	require.NoError(t, err)
	obs, ok := buckets.Bucket("Time1")
	assert.True(t, ok)
	assert.Equal(t, []float64{1, 2}, obs)

	labels, err := reg.Categorical("Time")
	require.NoError(t, err)
	assert.Equal(t, Categorical{"Time1", "Time2"}, labels)
}

func TestRegistry_ShapeMismatch(t *testing.T) {
	reg := sampleRegistry()

	_, err := reg.Flat("LifeSatisfaction")
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))

	_, err = reg.Bucketed("PositiveMood")
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))

	_, err = reg.Categorical("PositiveMood")
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestRegistry_UnknownVariable(t *testing.T) {
	_, err := sampleRegistry().Resolve("Sadness", ShapeFlat)
	assert.True(t, errors.Is(err, core.ErrVariableNotFound))
	assert.True(t, core.IsNotFoundError(err))
}

func TestRegistry_CopiesInput(t *testing.T) {
	values := []float64{1, 2, 3}
	reg := NewBuilder().Add(NewFlatVariable("V", values)).Build()
	values[0] = 99

	flat, err := reg.Flat("V")
	require.NoError(t, err)
	assert.Equal(t, 1.0, flat[0])
}

func TestRegistry_OverrideKeepsOrder(t *testing.T) {
	reg := NewBuilder().AddAll(
		NewFlatVariable("A", []float64{1}),
		NewFlatVariable("B", []float64{2}),
		NewFlatVariable("A", []float64{3}),
	).Build()

	assert.Equal(t, []core.VariableKey{"A", "B"}, reg.Keys())
	flat, err := reg.Flat("A")
	require.NoError(t, err)
	assert.Equal(t, FlatSeries{3}, flat)
	assert.Equal(t, 2, reg.Len())
}

func TestBuilder_LenCountsDistinctEntries(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, 0, b.Len())

	b.AddAll(
		NewFlatVariable("A", []float64{1}),
		NewFlatVariable("A", []float64{2}),
		NewCategoricalVariable("A", []string{"x"}),
	)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, b.Len(), b.Build().Len())
}

func TestVariable_AsShape(t *testing.T) {
	flat := NewFlatVariable("Mood", []float64{1, 2})
	buckets := NewBucketedVariable("Sat", map[string][]float64{"T1": {1}})
	labels := NewCategoricalVariable("Time", []string{"T1"})

	series, err := flat.AsFlat()
	require.NoError(t, err)
	assert.Equal(t, FlatSeries{1, 2}, series)

	grouped, err := buckets.AsBucketed()
	require.NoError(t, err)
	assert.Len(t, grouped, 1)

	cats, err := labels.AsCategorical()
	require.NoError(t, err)
	assert.Equal(t, Categorical{"T1"}, cats)

	_, err = flat.AsBucketed()
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
	_, err = buckets.AsCategorical()
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
	_, err = labels.AsFlat()
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestRegistry_SameKeyDifferentShapes(t *testing.T) {
	reg := NewBuilder().AddAll(
		NewFlatVariable("LifeSatisfaction", []float64{4, 5, 6}),
		NewBucketedVariable("LifeSatisfaction", map[string][]float64{"Time1": {4, 5}}),
	).Build()

	flat, err := reg.Flat("LifeSatisfaction")
	require.NoError(t, err)
	assert.Len(t, flat, 3)

	buckets, err := reg.Bucketed("LifeSatisfaction")
	require.NoError(t, err)
	assert.Len(t, buckets, 1)

	assert.Equal(t, []Shape{ShapeFlat, ShapeBucketed}, reg.Shapes("LifeSatisfaction"))
	assert.Equal(t, []core.VariableKey{"LifeSatisfaction"}, reg.Keys())
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Has("LifeSatisfaction"))
	assert.False(t, reg.Has("Sadness"))

	_, err = reg.Categorical("LifeSatisfaction")
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestRegistry_VersionTracksContent(t *testing.T) {
	a := sampleRegistry()
	b := sampleRegistry()
	assert.Equal(t, a.Version(), b.Version())

	c := NewBuilder().Add(NewFlatVariable("PositiveMood", []float64{3, 4, 6})).Build()
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestRegistry_CountByShape(t *testing.T) {
	counts := sampleRegistry().CountByShape()
	assert.Equal(t, 1, counts[ShapeFlat])
	assert.Equal(t, 1, counts[ShapeBucketed])
	assert.Equal(t, 1, counts[ShapeCategorical])
}

func TestAxisSelection_StateTransitions(t *testing.T) {
	var sel AxisSelection
	assert.Equal(t, NoSelection, sel.State())

	sel = sel.With(core.AxisX, "PositiveMood")
	assert.Equal(t, PartialSelection, sel.State())
	_, _, ok := sel.Complete()
	assert.False(t, ok)

	sel = sel.With(core.AxisY, "NegativeMood")
	assert.Equal(t, FullSelection, sel.State())
	x, y, ok := sel.Complete()
	assert.True(t, ok)
	assert.Equal(t, core.VariableKey("PositiveMood"), x)
	assert.Equal(t, core.VariableKey("NegativeMood"), y)

	sel = sel.Without(core.AxisX)
	assert.Equal(t, PartialSelection, sel.State())
	sel = sel.Without(core.AxisY)
	assert.Equal(t, NoSelection, sel.State())
}

func TestAxisSelection_EqualAndTitle(t *testing.T) {
	a := NewAxisSelection("X1", "Y1")
	b := NewAxisSelection("X1", "Y1")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(a.Without(core.AxisY)))

	var empty AxisSelection
	assert.Equal(t, "X-Axis", empty.Title(core.AxisX))
	assert.Equal(t, "Y-Axis", empty.Title(core.AxisY))
	assert.Equal(t, "Y1", a.Title(core.AxisY))
}
