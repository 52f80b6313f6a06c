// Package testutil builds checklist documents for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/checkbox"
)

// lineData holds one line of the document being built.
type lineData struct {
	text   string
	state  checkbox.State
	isItem bool
	indent int
	bullet string
	marker rune
}

// Builder accumulates lines of a checklist document.
type Builder struct {
	lines []lineData
}

// NewBuilder creates an empty document builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithHeading adds a markdown heading line.
func (b *Builder) WithHeading(title string) *Builder {
	b.lines = append(b.lines, lineData{text: "# " + title})
	return b
}

// WithLine adds a line of plain text.
func (b *Builder) WithLine(text string) *Builder {
	b.lines = append(b.lines, lineData{text: text})
	return b
}

// WithItem adds a checkbox item with optional configuration.
func (b *Builder) WithItem(state checkbox.State, text string, opts ...ItemOption) *Builder {
	item := lineData{text: text, state: state, isItem: true, marker: markerFor(state)}
	for _, opt := range opts {
		opt(&item)
	}
	b.lines = append(b.lines, item)
	return b
}

// Done adds a "[x]" item.
func (b *Builder) Done(text string, opts ...ItemOption) *Builder {
	return b.WithItem(checkbox.Done, text, opts...)
}

// NotDone adds a "[ ]" item.
func (b *Builder) NotDone(text string, opts ...ItemOption) *Builder {
	return b.WithItem(checkbox.NotDone, text, opts...)
}

// InProgress adds a "[>]" item.
func (b *Builder) InProgress(text string, opts ...ItemOption) *Builder {
	return b.WithItem(checkbox.InProgress, text, opts...)
}

// Build returns the document text. Every line ends with "\n".
func (b *Builder) Build() string {
	var sb strings.Builder
	for _, l := range b.lines {
		if l.isItem {
			sb.WriteString(strings.Repeat(" ", l.indent))
			sb.WriteString(l.bullet)
			sb.WriteString("[")
			sb.WriteRune(l.marker)
			sb.WriteString("] ")
		}
		sb.WriteString(l.text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Counts returns how many items of each state were added.
func (b *Builder) Counts() checkbox.Stats {
	var s checkbox.Stats
	for _, l := range b.lines {
		if !l.isItem {
			continue
		}
		s.Total++
		switch checkbox.Classify(l.marker) {
		case checkbox.Done:
			s.Done++
		case checkbox.InProgress:
			s.InProgress++
		default:
			s.NotDone++
		}
	}
	if s.Total > 0 {
		s.Progress = float64(s.Done) / float64(s.Total) * 100
	}
	return s
}

// WriteFile writes the document to dir/name and returns the path.
func (b *Builder) WriteFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(b.Build()), 0o600))
	return path
}

func markerFor(state checkbox.State) rune {
	switch state {
	case checkbox.Done:
		return 'x'
	case checkbox.InProgress:
		return '>'
	default:
		return ' '
	}
}
