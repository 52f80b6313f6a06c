// Package transition reports checkboxes whose state changed between two scans
// of the same document.
package transition

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/document"
)

// Change is a checkbox that kept its position through an edit but changed state.
type Change struct {
	Range checkbox.Range `json:"range" yaml:"range"` // in the new text
	Line  int            `json:"line" yaml:"line"`   // 0-based line in the new text
	From  checkbox.State `json:"from" yaml:"from"`
	To    checkbox.State `json:"to" yaml:"to"`
	Text  string         `json:"text" yaml:"text"`
}

// Detect maps every match of the old scan through the edit from oldText to
// newText and returns the ones that now start a match with a different state.
// Matches that were removed or newly added are not changes.
func Detect(oldText string, prev checkbox.Buckets, newText string, cur checkbox.Buckets) []Change {
	if prev.Len() == 0 || cur.Len() == 0 {
		return nil
	}

	mapOffset := func(offset int) int { return offset }
	if oldText != newText {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(oldText, newText, false)
		mapOffset = func(offset int) int { return dmp.DiffXIndex(diffs, offset) }
	}

	var (
		changes []Change
		index   *document.Index
	)
	current := cur.All()
	for _, m := range prev.All() {
		start := mapOffset(m.Start)
		state, ok := cur.StateAt(start)
		if !ok || state == m.State {
			continue
		}

		r := rangeAt(current, start)
		if index == nil {
			index = document.NewIndex(newText)
		}
		changes = append(changes, Change{
			Range: r,
			Line:  index.LineOf(r.Start),
			From:  m.State,
			To:    state,
			Text:  r.Slice(newText),
		})
	}
	return changes
}

func rangeAt(matches []checkbox.Match, start int) checkbox.Range {
	for _, m := range matches {
		if m.Start == start {
			return m.Range
		}
	}
	return checkbox.Range{Start: start, End: start}
}
