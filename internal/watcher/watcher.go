// Package watcher notifies a callback when selected files change on disk.
// The TUI uses it to reload after another taskdeck process records a mutation
// in the activity log.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces a burst of appends into a single notification.
const DefaultDelay = 100 * time.Millisecond

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the quiet period that must pass after the last event before
// the callback fires.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithNames restricts notifications to files with the given base names.
func WithNames(names ...string) Option {
	return func(w *Watcher) {
		for _, n := range names {
			w.names[n] = struct{}{}
		}
	}
}

// Watcher watches directories and calls onChange once per burst of events.
type Watcher struct {
	fsw      *fsnotify.Watcher
	delay    time.Duration
	names    map[string]struct{}
	onChange func()

	mu      sync.Mutex
	pending *time.Timer
}

// New watches every directory in dirs.
func New(dirs []string, onChange func(), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		delay:    DefaultDelay,
		names:    make(map[string]struct{}),
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	w.fsw = fsw
	return w, nil
}

// Run dispatches events until ctx is done or the watcher is closed. Watch
// errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	defer w.cancelPending()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.matches(ev) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close releases the underlying fsnotify watcher, which also ends Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) matches(ev fsnotify.Event) bool {
	if ev.Op&relevantOps == 0 {
		return false
	}
	if len(w.names) == 0 {
		return true
	}
	_, ok := w.names[filepath.Base(ev.Name)]
	return ok
}

// schedule restarts the quiet-period timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.delay, w.onChange)
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}
