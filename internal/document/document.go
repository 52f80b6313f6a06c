// Package document holds the text sources the scanner reads from and converts
// scan offsets into line and column positions.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a file-backed document no longer exists.
var ErrNotFound = errors.New("document not found")

// Source is a document whose text is read at scan time.
type Source interface {
	Path() string
	Text() (string, error)
}

// Snapshot is the immutable text of a document taken for a single scan.
type Snapshot struct {
	Path string
	Text string
}

// Take reads the current text of src.
func Take(src Source) (Snapshot, error) {
	text, err := src.Text()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: src.Path(), Text: text}, nil
}

// File is a document backed by a file on disk.
type File struct {
	path string
}

// NewFile returns a file-backed document. The path is made absolute so that
// documents opened through different relative paths compare equal.
func NewFile(path string) *File {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &File{path: filepath.Clean(path)}
}

// Path returns the absolute path of the file.
func (f *File) Path() string {
	return f.path
}

// Text reads the whole file.
func (f *File) Text() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", f.path, ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", f.path, err)
	}
	return string(data), nil
}

// Buffer is an in-memory document, e.g. text piped on stdin or an unsaved edit.
type Buffer struct {
	mu   sync.RWMutex
	path string
	text string
}

// NewBuffer creates an in-memory document.
func NewBuffer(path, text string) *Buffer {
	return &Buffer{path: path, text: text}
}

// Path returns the name the buffer was created with.
func (b *Buffer) Path() string {
	return b.path
}

// Text returns the current buffer contents.
func (b *Buffer) Text() (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text, nil
}

// SetText replaces the buffer contents.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}
