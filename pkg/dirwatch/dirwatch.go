// Package dirwatch tells a renderer when the directory it shows was changed
// by another process, so it can list it again.
package dirwatch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/sirupsen/logrus"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a single directory at a time. Bursts of events are
// collapsed into one callback fired after the directory has been quiet for the debounce period.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(dir string)
	logger   *logrus.Entry

	mu    sync.Mutex
	dir   string
	timer *time.Timer
}

func New(debounce time.Duration, onChange func(dir string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		logger:   logging.NewLogger("dirwatch"),
	}, nil
}

// Watch switches the watcher to dir.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.watcher.Remove(w.dir); err != nil {
			w.logger.WithError(err).Debugf("stop watching %s", w.dir)
		}
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.dir = ""
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	w.logger.Debugf("watching %s", dir)
	return nil
}

func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Start dispatches events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.handleChange(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watcher error: %v", err)
		case <-ctx.Done():
			_ = w.Close()
			return
		}
	}
}

func (w *Watcher) handleChange(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := w.dir
	if dir == "" || (name != dir && filepath.Dir(name) != dir) {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.Dir() != dir {
			return
		}
		w.logger.Debugf("directory changed: %s", dir)
		if w.onChange != nil {
			w.onChange(dir)
		}
	})
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
