// Package watch reloads data tables when their files change on disk. Spreadsheet tools
// write a file several times per save, so events are debounced and the callback fires once
// the files have been quiet for the debounce interval.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a fixed set of files.
type Watcher struct {
	fw       *fsnotify.Watcher
	logger   *internal.Logger
	debounce time.Duration
	done     chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatcher creates a file watcher; debounce <= 0 means DefaultDebounce.
func NewWatcher(logger *internal.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Watcher{fw: fw, logger: logger, debounce: debounce, done: make(chan struct{})}, nil
}

// Watch calls onChange after any of paths is written, created, renamed or removed. The
// parent directories are watched rather than the files so that editors replacing a file
// by rename are still seen.
func (w *Watcher) Watch(paths []string, onChange func()) error {
	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || !targets[abs] {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.logger.Debug("[watch] %s %s", event.Op, abs)
					w.schedule(onChange)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("[watch] %v", err)

			case <-w.done:
				return
			}
		}
	}()
	return nil
}

// schedule restarts the quiet-period timer.
func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, onChange)
}

// Stop ends monitoring and releases all resources. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}
