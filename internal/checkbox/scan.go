// Package checkbox finds checkbox list items ("[ ]", "[x]", "[>]") in document text
// and partitions them by state.
//
// Matching is flat and textual: a match starts at "[", takes exactly one marker
// character, "]", one whitespace character, and then the rest of the line. There is
// no understanding of lists, code fences or escaping.
package checkbox

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

// Whitespace follows the JavaScript \s set; line terminators end the rest of the line.
const (
	lineTerminators = `\n\r\x{2028}\x{2029}`
	inlineSpace     = `\t\v\f\p{Zs}\x{FEFF}`

	// Pattern is the checkbox expression. The marker may be any character; the
	// separator after "]" may be a line terminator, in which case the match ends there.
	Pattern = `\[((?s:.))\](?:[` + lineTerminators + `]|[` + inlineSpace + `][^` + lineTerminators + `]*)`
)

var checkboxPattern = regexp.MustCompile(Pattern)

// Range is a half-open [Start, End) byte offset range into the scanned text.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Slice returns the part of text covered by the range.
func (r Range) Slice(text string) string {
	return text[r.Start:r.End]
}

// Match is a located and classified checkbox occurrence.
type Match struct {
	Range
	Marker rune
	State  State
}

// Buckets holds the matches of one scan partitioned by state.
// Each bucket keeps document order.
type Buckets struct {
	Done       []Range `json:"done" yaml:"done"`
	NotDone    []Range `json:"not_done" yaml:"not_done"`
	InProgress []Range `json:"in_progress" yaml:"in_progress"`
}

// Scan finds every checkbox match in text and returns them partitioned by state.
// Scan is pure: it holds no state between calls and is safe for concurrent use.
func Scan(text string) Buckets {
	return Partition(Matches(text))
}

// Matches returns all checkbox matches in text in left-to-right order.
// Matches never overlap; a second marker on an already matched line is part of the
// first match's content.
func Matches(text string) []Match {
	locs := checkboxPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		marker, _ := utf8.DecodeRuneInString(text[loc[2]:loc[3]])
		matches = append(matches, Match{
			Range:  Range{Start: loc[0], End: loc[1]},
			Marker: marker,
			State:  Classify(marker),
		})
	}
	return matches
}

// Partition splits matches into buckets, preserving their order.
func Partition(matches []Match) Buckets {
	var b Buckets
	for _, m := range matches {
		switch m.State {
		case Done:
			b.Done = append(b.Done, m.Range)
		case InProgress:
			b.InProgress = append(b.InProgress, m.Range)
		default:
			b.NotDone = append(b.NotDone, m.Range)
		}
	}
	return b
}

// Get returns the bucket for state.
func (b Buckets) Get(state State) []Range {
	switch state {
	case Done:
		return b.Done
	case InProgress:
		return b.InProgress
	default:
		return b.NotDone
	}
}

// Len returns the total number of matches across all buckets.
func (b Buckets) Len() int {
	return len(b.Done) + len(b.NotDone) + len(b.InProgress)
}

// All merges the buckets back into one list ordered by start offset.
// Marker is left zero; only the state is known from the bucket.
func (b Buckets) All() []Match {
	all := make([]Match, 0, b.Len())
	for _, state := range States {
		for _, r := range b.Get(state) {
			all = append(all, Match{Range: r, State: state})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Start < all[j].Start
	})
	return all
}

// StateAt returns the state of the match starting at offset, if any.
func (b Buckets) StateAt(offset int) (State, bool) {
	for _, state := range States {
		ranges := b.Get(state)
		i := sort.Search(len(ranges), func(i int) bool { return ranges[i].Start >= offset })
		if i < len(ranges) && ranges[i].Start == offset {
			return state, true
		}
	}
	return NotDone, false
}
