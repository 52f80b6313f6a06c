package presentation

import (
	"strings"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/document"
)

// ReportDTO is the scan result of one document.
type ReportDTO struct {
	Path       string         `json:"path" yaml:"path"`
	Skipped    string         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Stats      checkbox.Stats `json:"stats" yaml:"stats"`
	Done       []RangeDTO     `json:"done" yaml:"done"`
	NotDone    []RangeDTO     `json:"not_done" yaml:"not_done"`
	InProgress []RangeDTO     `json:"in_progress" yaml:"in_progress"`
}

// RangeDTO is one match with its location. Start and End are byte offsets;
// Line and Column are 1-based, Column counting grapheme clusters.
type RangeDTO struct {
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Text   string `json:"text" yaml:"text"`
}

// FromScan builds the report for text scanned into b.
func FromScan(path, text string, b checkbox.Buckets) ReportDTO {
	index := document.NewIndex(text)
	convert := func(ranges []checkbox.Range) []RangeDTO {
		out := make([]RangeDTO, 0, len(ranges))
		for _, r := range ranges {
			pos := index.PositionAt(r.Start)
			out = append(out, RangeDTO{
				Start:  r.Start,
				End:    r.End,
				Line:   pos.Line + 1,
				Column: pos.Column + 1,
				Text:   trimTerminator(r.Slice(text)),
			})
		}
		return out
	}

	return ReportDTO{
		Path:       path,
		Stats:      checkbox.Summarize(b),
		Done:       convert(b.Done),
		NotDone:    convert(b.NotDone),
		InProgress: convert(b.InProgress),
	}
}

// Skipped builds the report for a document that was not scanned.
func Skipped(path, reason string) ReportDTO {
	return ReportDTO{
		Path:       path,
		Skipped:    reason,
		Done:       []RangeDTO{},
		NotDone:    []RangeDTO{},
		InProgress: []RangeDTO{},
	}
}

// get returns the ranges for state.
func (r ReportDTO) get(state checkbox.State) []RangeDTO {
	switch state {
	case checkbox.Done:
		return r.Done
	case checkbox.InProgress:
		return r.InProgress
	default:
		return r.NotDone
	}
}

// A match may end with the line terminator that followed "]".
func trimTerminator(s string) string {
	return strings.TrimRight(s, "\r\n\u2028\u2029")
}
