// Package watcher provides file system watching with debouncing for markdown documents.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/checklight/internal/debounce"
	"github.com/zjrosen/checklight/internal/log"
)

// Watcher monitors a set of documents for changes and sends the changed paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	scheduler *debounce.Scheduler
	onChange  chan []string
	done      chan struct{}
	stopOnce  sync.Once

	mu      sync.Mutex
	paths   map[string]struct{}
	changed map[string]struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: debounce.DefaultDelay,
	}
}

// New creates a new document watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		scheduler: debounce.New(cfg.DebounceDur),
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
		paths:     make(map[string]struct{}),
		changed:   make(map[string]struct{}),
	}
	for _, p := range cfg.Paths {
		w.paths[normalize(p)] = struct{}{}
	}
	return w, nil
}

// Start begins watching the directories of the configured documents.
// Returns a channel that receives the changed paths after each quiet period.
func (w *Watcher) Start() (<-chan []string, error) {
	dirs := make(map[string]struct{})
	w.mu.Lock()
	for p := range w.paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	w.mu.Unlock()

	// Watch directories rather than files so editors that save by rename keep working
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching directory", "dir", dir)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.scheduler.Stop()
		err = w.fsWatcher.Close()
	})
	return err
}

// loop processes file system events until stopped.
func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			w.mu.Lock()
			w.changed[normalize(event.Name)] = struct{}{}
			w.mu.Unlock()
			w.scheduler.Trigger(w.flush)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			return
		}
	}
}

// flush sends the changed paths collected during the quiet period. If the
// consumer has not drained the previous notification the paths stay pending
// and are retried after another delay.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.changed) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.changed))
	for p := range w.changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	case w.onChange <- paths:
		w.mu.Lock()
		for _, p := range paths {
			delete(w.changed, p)
		}
		w.mu.Unlock()
		log.Debug(log.CatWatcher, "documents changed", "paths", paths)
	default:
		w.scheduler.Trigger(w.flush)
	}
}

// isRelevantEvent checks if the event should trigger a rescan.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Write or create (editors that save via rename produce a create)
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.paths[normalize(event.Name)]
	return ok
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
