package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"datagraph/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirWatcher_ReloadsOnNewDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"A":[1,2,3]}`), 0o644))

	sources, err := BuildSources(config.DataConfig{Sources: []string{config.SourceDir}, Dir: dir}, nil)
	require.NoError(t, err)
	loader := NewLoader(sources, 2, time.Second)

	holder := NewHolder(nil)
	_, err = holder.Reload(context.Background(), loader)
	require.NoError(t, err)
	assert.False(t, holder.Registry().Has("B"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewDirWatcher(dir, holder, loader, 20*time.Millisecond).Run(ctx)
	}()

	// The watcher registers asynchronously, so keep touching the file until
	// a reload picks it up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"B":[4,5]}`), 0o644)
		return holder.Registry().Has("B")
	}, 5*time.Second, 100*time.Millisecond)
	assert.True(t, holder.Registry().Has("A"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestDirWatcher_FailedReloadKeepsRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"A":[1,2,3]}`), 0o644))

	sources, err := BuildSources(config.DataConfig{Sources: []string{config.SourceDir}, Dir: dir}, nil)
	require.NoError(t, err)
	loader := NewLoader(sources, 2, time.Second)
	holder := NewHolder(nil)
	before, err := holder.Reload(context.Background(), loader)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewDirWatcher(dir, holder, loader, 20*time.Millisecond).Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{not json`), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, before.Version(), holder.Registry().Version())
	assert.True(t, holder.Registry().Has("A"))
}

func TestDirWatcher_MissingDirectory(t *testing.T) {
	holder := NewHolder(nil)
	w := NewDirWatcher(filepath.Join(t.TempDir(), "absent"), holder, NewLoader(nil, 1, 0), 0)
	assert.Error(t, w.Run(context.Background()))
}
