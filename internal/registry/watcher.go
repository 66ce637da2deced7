package registry

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"datagraph/internal"

	"github.com/fsnotify/fsnotify"
)

var watchLog = internal.NewLogger("DirWatcher")

// DirWatcher reloads the registry when JSON documents in a directory are
// created, written, removed or renamed. Bursts of events within the
// debounce window trigger a single reload.
type DirWatcher struct {
	dir      string
	holder   *Holder
	loader   *Loader
	debounce time.Duration
}

// NewDirWatcher creates a watcher for dir. A non-positive debounce uses 500ms.
func NewDirWatcher(dir string, holder *Holder, loader *Loader, debounce time.Duration) *DirWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &DirWatcher{dir: dir, holder: holder, loader: loader, debounce: debounce}
}

// Run watches until ctx is cancelled. Failed reloads are logged and the
// previous registry stays published.
func (w *DirWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	watchLog.Info("Watching %s for dataset changes", w.dir)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			watchLog.Debug("%s %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			watchLog.Warn("watch error: %v", err)
		case <-timer.C:
			reg, err := w.holder.Reload(ctx, w.loader)
			if err != nil {
				watchLog.Error("Reload after change failed, keeping registry %s: %v",
					w.holder.Registry().Version().Short(), err)
				continue
			}
			watchLog.Info("Reloaded registry %s (%d entries)", reg.Version().Short(), reg.Len())
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
