package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/debounce"
	"github.com/zjrosen/checklight/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	err := os.WriteFile(path, []byte("[ ] task"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(path, []byte(fmt.Sprintf("[x] task %d", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case paths := <-onChange:
		require.Equal(t, []string{path}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	otherPath := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(path, []byte("[ ] a"), 0644))
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0644))

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(otherPath, []byte("[x] other"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unwatched files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_MultipleDocuments(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	w, err := watcher.New(watcher.Config{
		Paths:       []string{a, b},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(b, []byte("[x] b"), 0644))
	require.NoError(t, os.WriteFile(a, []byte("[x] a"), 0644))

	select {
	case paths := <-onChange:
		require.ElementsMatch(t, []string{a, b}, paths)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for both documents")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0644))

	w, err := watcher.New(watcher.Config{
		Paths:       []string{path},
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}

	// Second stop is a no-op
	require.NoError(t, w.Stop())
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/notes/todo.md")

	assert.Equal(t, []string{"/notes/todo.md"}, cfg.Paths)
	assert.Equal(t, debounce.DefaultDelay, cfg.DebounceDur)
}
