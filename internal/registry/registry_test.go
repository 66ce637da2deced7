package registry

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"datagraph/domain/dataset"
	"datagraph/internal/config"
	"datagraph/internal/errors"
	"datagraph/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name   string
	vars   []dataset.Variable
	err    error
	delay  time.Duration
	active *atomic.Int32
	peak   *atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(ctx context.Context) ([]dataset.Variable, error) {
	if s.active != nil {
		n := s.active.Add(1)
		defer s.active.Add(-1)
		for {
			p := s.peak.Load()
			if n <= p || s.peak.CompareAndSwap(p, n) {
				break
			}
		}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.vars, s.err
}

func TestLoader_LaterSourcesOverride(t *testing.T) {
	first := &stubSource{name: "first", vars: []dataset.Variable{
		dataset.NewFlatVariable("PositiveMood", []float64{1, 2}),
		dataset.NewFlatVariable("NegativeMood", []float64{2, 1}),
	}, delay: 20 * time.Millisecond}
	second := &stubSource{name: "second", vars: []dataset.Variable{
		dataset.NewFlatVariable("PositiveMood", []float64{9, 9}),
	}}

	reg, err := NewLoader([]ports.VariableSource{first, second}, 2, time.Second).Load(context.Background())
	require.NoError(t, err)

	flat, err := reg.Flat("PositiveMood")
	require.NoError(t, err)
	assert.Equal(t, dataset.FlatSeries{9, 9}, flat)
	assert.Equal(t, 2, reg.Len())
}

func TestLoader_BoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	var sources []ports.VariableSource
	for i := 0; i < 6; i++ {
		sources = append(sources, &stubSource{
			name:   "src",
			delay:  10 * time.Millisecond,
			active: &active,
			peak:   &peak,
		})
	}

	_, err := NewLoader(sources, 2, time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestLoader_SourceFailure(t *testing.T) {
	boom := stderrors.New("boom")
	sources := []ports.VariableSource{
		&stubSource{name: "ok"},
		&stubSource{name: "broken", err: boom},
	}

	_, err := NewLoader(sources, 1, 0).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, errors.CodeDataSource, errors.GetCode(err))
}

func TestLoader_Timeout(t *testing.T) {
	sources := []ports.VariableSource{&stubSource{name: "slow", delay: time.Second}}

	_, err := NewLoader(sources, 1, 10*time.Millisecond).Load(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHolder_ReloadKeepsPreviousOnFailure(t *testing.T) {
	initial := dataset.NewBuilder().Add(dataset.NewFlatVariable("A", []float64{1})).Build()
	holder := NewHolder(initial)
	assert.Same(t, initial, holder.Registry())

	failing := NewLoader([]ports.VariableSource{&stubSource{name: "bad", err: stderrors.New("down")}}, 1, 0)
	_, err := holder.Reload(context.Background(), failing)
	require.Error(t, err)
	assert.Same(t, initial, holder.Registry())

	working := NewLoader([]ports.VariableSource{&stubSource{name: "good", vars: []dataset.Variable{
		dataset.NewFlatVariable("B", []float64{2}),
	}}}, 1, 0)
	reg, err := holder.Reload(context.Background(), working)
	require.NoError(t, err)
	assert.Same(t, reg, holder.Registry())
	assert.NotEqual(t, initial.Version(), reg.Version())
}

func TestHolder_NilStartsEmpty(t *testing.T) {
	holder := NewHolder(nil)
	require.NotNil(t, holder.Registry())
	assert.Equal(t, 0, holder.Registry().Len())
	assert.False(t, holder.LoadedAt().IsZero())
}

func TestBuildSources_Embedded(t *testing.T) {
	sources, err := BuildSources(config.DataConfig{Sources: []string{config.SourceEmbedded}}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	reg, err := NewLoader(sources, 4, time.Second).Load(context.Background())
	require.NoError(t, err)

	_, err = reg.Flat("PositiveMood")
	assert.NoError(t, err)
	_, err = reg.Flat("LifeSatisfaction")
	assert.NoError(t, err)
	_, err = reg.Bucketed("LifeSatisfaction")
	assert.NoError(t, err)
	_, err = reg.Categorical("Time")
	assert.NoError(t, err)
}

func TestBuildSources_Errors(t *testing.T) {
	_, err := BuildSources(config.DataConfig{Sources: []string{config.SourceDatabase}}, nil)
	assert.Error(t, err)

	_, err = BuildSources(config.DataConfig{Sources: []string{"ftp"}}, nil)
	assert.Error(t, err)
}
