// Package watcher reports changes to individual files.
//
// Each file's parent directory is watched rather than the file itself, so
// editors that save by writing a new file and renaming it over the old one
// are still seen.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"carnorm/internal/logging"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// ChangeHandler is called with each debounced batch of events.
type ChangeHandler func(events []Event)

// Config contains watcher configuration
type Config struct {
	Debounce time.Duration
}

// DefaultConfig returns the default watcher configuration
func DefaultConfig() Config {
	return Config{Debounce: 250 * time.Millisecond}
}

// Watcher watches a set of files for changes
type Watcher struct {
	config  Config
	logger  *logging.Logger
	handler ChangeHandler
	fs      *fsnotify.Watcher
	batch   *BatchDebouncer

	mu    sync.RWMutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// New creates a new file watcher
func New(config Config, logger *logging.Logger, handler ChangeHandler) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		config:  config,
		logger:  logger,
		handler: handler,
		fs:      fsw,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
	}
	w.batch = NewBatchDebouncer(config.Debounce, w.emit)
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; ok {
		return nil
	}
	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}

	w.logger.Debug("Watching file", map[string]interface{}{
		"path": abs,
	})
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Run delivers events until ctx is cancelled. Pending events are dropped on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.batch.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	w.batch.Cancel()
	return w.fs.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	eventType, ok := translate(ev.Op)
	if !ok {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.RLock()
	_, watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	w.batch.Add(Event{Type: eventType, Path: path, Timestamp: time.Now()})
}

func (w *Watcher) emit(events []Event) {
	w.logger.Debug("File changes detected", map[string]interface{}{
		"eventCount": len(events),
	})
	if w.handler != nil {
		w.handler(events)
	}
}

// translate maps an fsnotify op to an EventType. Permission changes are
// ignored.
func translate(op fsnotify.Op) (EventType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreate, true
	case op.Has(fsnotify.Write):
		return EventModify, true
	case op.Has(fsnotify.Remove):
		return EventDelete, true
	case op.Has(fsnotify.Rename):
		return EventRename, true
	}
	return 0, false
}
