// Package watch re-runs a full index build when the project tree changes.
// Events are debounced so a burst of writes triggers one rebuild after the
// tree goes quiet. Rebuilds are always complete builds; there is no
// incremental update path.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syedafeezu/DevScope/internal/config"
	"github.com/syedafeezu/DevScope/internal/debug"
)

// Watcher monitors the project tree and invokes the rebuild callback
// after the debounce period of quiet.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cfg      *config.Config
	rebuild  func() error
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	pruned  map[string]bool
	onError func(error)
}

// New creates a watcher for the configured project root. The rebuild
// callback runs on a timer goroutine once the debounce period expires; it
// must not block forever.
func New(cfg *config.Config, rebuild func() error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	pruned := make(map[string]bool, len(cfg.Index.PruneDirs)+1)
	for _, d := range cfg.Index.PruneDirs {
		pruned[d] = true
	}
	pruned[cfg.Index.Dir] = true

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fsw,
		cfg:      cfg,
		rebuild:  rebuild,
		debounce: time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
		pruned:   pruned,
	}, nil
}

// SetErrorHandler installs a callback for rebuild and watch errors.
func (w *Watcher) SetErrorHandler(fn func(error)) {
	w.onError = fn
}

// Start adds watches for every directory under the root and begins
// processing events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.cfg.Project.Root); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop cancels event processing and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

// addWatches registers root and all non-pruned subdirectories.
func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Logf("watch: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.pruned[d.Name()] {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// processEvents drains fsnotify events, adding watches for new
// directories and scheduling a debounced rebuild for everything else.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if w.pruned[base] {
		return
	}

	// New directories need their own watch before the debounce fires so
	// their contents are seen next time.
	if event.Op&fsnotify.Create != 0 {
		if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
			if err := w.addWatches(event.Name); err != nil {
				w.reportError(err)
			}
		}
	}

	debug.Logf("watch: %s %s", event.Op, event.Name)
	w.scheduleRebuild()
}

// scheduleRebuild resets the debounce timer; the rebuild runs once the
// tree has been quiet for the full debounce period.
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		if err := w.rebuild(); err != nil {
			w.reportError(err)
		}
	})
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	} else {
		debug.Logf("watch: error: %v", err)
	}
}
