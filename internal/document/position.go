package document

import (
	"sort"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Position locates a byte offset in a document.
//
// Three units are reported: Column counts grapheme clusters from the start of the
// line (what a user perceives as characters), Display counts terminal cells, and
// Rune counts code points from the start of the document.
type Position struct {
	Line    int `json:"line" yaml:"line"`       // 0-based
	Column  int `json:"column" yaml:"column"`   // 0-based grapheme column
	Display int `json:"display" yaml:"display"` // 0-based display column
	Rune    int `json:"rune" yaml:"rune"`       // rune offset from start of text
}

// Index converts byte offsets of one text into positions.
type Index struct {
	text       string
	lineStarts []int
}

// NewIndex builds the line table for text. Lines are split on "\n" only; a
// preceding "\r" stays part of the line content.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// LineCount returns the number of lines (a trailing newline opens an empty last line).
func (x *Index) LineCount() int {
	return len(x.lineStarts)
}

// LineStart returns the byte offset where line begins.
func (x *Index) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(x.lineStarts) {
		return len(x.text)
	}
	return x.lineStarts[line]
}

// LineOf returns the 0-based line containing offset.
func (x *Index) LineOf(offset int) int {
	offset = x.clamp(offset)
	return sort.Search(len(x.lineStarts), func(i int) bool { return x.lineStarts[i] > offset }) - 1
}

// PositionAt converts a byte offset into a Position. Offsets outside the text are
// clamped to its bounds.
func (x *Index) PositionAt(offset int) Position {
	offset = x.clamp(offset)
	line := x.LineOf(offset)
	prefix := x.text[x.lineStarts[line]:offset]

	return Position{
		Line:    line,
		Column:  uniseg.GraphemeClusterCount(prefix),
		Display: runewidth.StringWidth(prefix),
		Rune:    utf8.RuneCountInString(x.text[:offset]),
	}
}

func (x *Index) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(x.text) {
		return len(x.text)
	}
	return offset
}
