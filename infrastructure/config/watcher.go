package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads files when they change on disk. Directories are watched
// rather than the files themselves so editors that replace files by rename
// are still noticed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	handlers map[string]func() error
	debounce time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a new file watcher
func NewWatcher(logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:  fsWatcher,
		handlers: make(map[string]func() error),
		debounce: 500 * time.Millisecond,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add registers onChange to run after path is written or replaced. Must be
// called before Run.
func (w *Watcher) Add(path string, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.handlers[abs] = onChange
	w.logger.Debug("Watching file", zap.String("path", abs))
	return nil
}

// Run processes file events until ctx is done
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if handler, watched := w.handlers[path]; watched {
				w.schedule(path, handler)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-ctx.Done():
			w.logger.Info("Stopping file watcher")
			w.mu.Lock()
			for _, t := range w.timers {
				t.Stop()
			}
			w.mu.Unlock()
			return
		}
	}
}

// schedule debounces bursts of events into a single reload
func (w *Watcher) schedule(path string, handler func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		if err := handler(); err != nil {
			w.logger.Error("Reload failed, keeping previous version",
				zap.String("path", path),
				zap.Error(err),
			)
			return
		}
		w.logger.Info("Reloaded file", zap.String("path", path))
	})
}
