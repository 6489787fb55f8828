// Package watcher wraps fsnotify with debouncing, so bursts of template
// file events collapse into a single change notification for the reload
// hub.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a file change event.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a file should be watched.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of file change events.
type ChangeHandler func(events []ChangeEvent)

// ExtFilter accepts files with any of the given extensions.
func ExtFilter(exts ...string) FileFilter {
	return func(path string) bool {
		for _, ext := range exts {
			if strings.EqualFold(filepath.Ext(path), ext) {
				return true
			}
		}
		return false
	}
}

// FileWatcher watches directories for file changes with debouncing.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	filters  []FileFilter
	handlers []ChangeHandler

	mu      sync.Mutex
	pending []ChangeEvent
	timer   *time.Timer
}

// NewFileWatcher creates a file watcher that groups events closer together
// than debounceDelay into one batch.
func NewFileWatcher(debounceDelay time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{watcher: w, delay: debounceDelay}, nil
}

// AddFilter adds a file filter. With at least one filter set, only files
// accepted by some filter produce events.
func (fw *FileWatcher) AddFilter(f FileFilter) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.filters = append(fw.filters, f)
}

// AddHandler registers a handler for debounced event batches.
func (fw *FileWatcher) AddHandler(h ChangeHandler) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.handlers = append(fw.handlers, h)
}

// AddRecursive watches dir and all subdirectories.
func (fw *FileWatcher) AddRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// Start processes events until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go func() {
		defer fw.watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				fw.handleEvent(ev)
			case _, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient; keep going.
			}
		}
	}()
}

func (fw *FileWatcher) handleEvent(ev fsnotify.Event) {
	if !fw.accept(ev.Name) {
		// New directories still need to be added to the watch set.
		if ev.Op.Has(fsnotify.Create) {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				_ = fw.watcher.Add(ev.Name)
			}
		}
		return
	}

	change := ChangeEvent{Path: ev.Name, ModTime: time.Now()}
	switch {
	case ev.Op.Has(fsnotify.Create):
		change.Type = EventTypeCreated
	case ev.Op.Has(fsnotify.Write):
		change.Type = EventTypeModified
	case ev.Op.Has(fsnotify.Remove):
		change.Type = EventTypeDeleted
	case ev.Op.Has(fsnotify.Rename):
		change.Type = EventTypeRenamed
	default:
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending = append(fw.pending, change)
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.flush)
}

func (fw *FileWatcher) flush() {
	fw.mu.Lock()
	events := fw.pending
	fw.pending = nil
	handlers := make([]ChangeHandler, len(fw.handlers))
	copy(handlers, fw.handlers)
	fw.mu.Unlock()

	if len(events) == 0 {
		return
	}
	for _, h := range handlers {
		h(events)
	}
}

func (fw *FileWatcher) accept(path string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if len(fw.filters) == 0 {
		return true
	}
	for _, f := range fw.filters {
		if f(path) {
			return true
		}
	}
	return false
}
