package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"datagraph/domain/dataset"
	"datagraph/internal/metrics"
)

// Holder publishes the current registry. Readers never block; reloads are
// serialized and a failed reload keeps the previous registry.
type Holder struct {
	current  atomic.Pointer[dataset.Registry]
	loadedAt atomic.Int64

	reloadMu sync.Mutex
}

// NewHolder creates a holder serving reg, or an empty registry when reg is nil
func NewHolder(reg *dataset.Registry) *Holder {
	h := &Holder{}
	if reg == nil {
		reg = dataset.NewBuilder().Build()
	}
	h.Store(reg)
	return h
}

// Registry returns the current registry
func (h *Holder) Registry() *dataset.Registry {
	return h.current.Load()
}

// Store replaces the current registry
func (h *Holder) Store(reg *dataset.Registry) {
	h.current.Store(reg)
	h.loadedAt.Store(time.Now().UnixNano())
}

// LoadedAt reports when the current registry was stored
func (h *Holder) LoadedAt() time.Time {
	return time.Unix(0, h.loadedAt.Load())
}

// Reload loads a fresh registry and publishes it on success
func (h *Holder) Reload(ctx context.Context, loader *Loader) (*dataset.Registry, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := time.Now()
	reg, err := loader.Load(ctx)
	if err != nil {
		metrics.ObserveReload(0, time.Since(start).Seconds(), err)
		return nil, err
	}
	h.Store(reg)
	metrics.ObserveReload(reg.Len(), time.Since(start).Seconds(), nil)
	return reg, nil
}
