// Package registry assembles the dataset registry from the configured
// sources and hands the current one to the rest of the application.
package registry

import (
	"context"
	"sync"
	"time"

	"datagraph/domain/dataset"
	"datagraph/internal"
	"datagraph/internal/errors"
	"datagraph/ports"

	"golang.org/x/sync/semaphore"
)

var logger = internal.NewLogger("RegistryLoader")

// Loader reads every source concurrently, at most concurrency at a time,
// and merges the results in source order so later sources override
// earlier entries with the same key and shape.
type Loader struct {
	sources []ports.VariableSource
	sem     *semaphore.Weighted
	timeout time.Duration
}

type loadResult struct {
	vars     []dataset.Variable
	err      error
	duration time.Duration
}

// NewLoader creates a loader. A non-positive timeout disables the deadline.
func NewLoader(sources []ports.VariableSource, concurrency int64, timeout time.Duration) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{
		sources: sources,
		sem:     semaphore.NewWeighted(concurrency),
		timeout: timeout,
	}
}

// Sources returns the names of the configured sources in merge order
func (l *Loader) Sources() []string {
	names := make([]string, 0, len(l.sources))
	for _, src := range l.sources {
		names = append(names, src.Name())
	}
	return names
}

// Load builds a registry from all sources. Any failing source fails the
// whole load.
func (l *Loader) Load(ctx context.Context) (*dataset.Registry, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	results := make([]loadResult, len(l.sources))
	var wg sync.WaitGroup

	for i, src := range l.sources {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			results[i] = loadResult{err: err}
			continue
		}

		wg.Add(1)
		go func(index int, src ports.VariableSource) {
			defer wg.Done()
			defer l.sem.Release(1)

			start := time.Now()
			vars, err := src.Load(ctx)
			results[index] = loadResult{vars: vars, err: err, duration: time.Since(start)}
		}(i, src)
	}
	wg.Wait()

	builder := dataset.NewBuilder()
	for i, res := range results {
		name := l.sources[i].Name()
		if res.err != nil {
			logger.Error("%s failed: %v", name, res.err)
			return nil, errors.DataSourceError(name, res.err)
		}
		builder.AddAll(res.vars...)
		logger.Debug("%s: %d variables in %v (%d entries so far)", name, len(res.vars), res.duration, builder.Len())
	}

	reg := builder.Build()
	logger.Info("Registry %s ready (%d entries from %d sources)",
		reg.Version().Short(), reg.Len(), len(l.sources))
	return reg, nil
}
