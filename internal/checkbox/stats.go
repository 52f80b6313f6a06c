package checkbox

// Stats summarizes the matches of one scan.
type Stats struct {
	Total      int     `json:"total" yaml:"total"`
	Done       int     `json:"done" yaml:"done"`
	NotDone    int     `json:"not_done" yaml:"not_done"`
	InProgress int     `json:"in_progress" yaml:"in_progress"`
	Progress   float64 `json:"progress" yaml:"progress"` // percent of matches that are done (0-100)
}

// Summarize counts the buckets.
func Summarize(b Buckets) Stats {
	s := Stats{
		Total:      b.Len(),
		Done:       len(b.Done),
		NotDone:    len(b.NotDone),
		InProgress: len(b.InProgress),
	}
	if s.Total > 0 {
		s.Progress = float64(s.Done) / float64(s.Total) * 100
	}
	return s
}

// Complete reports whether there is at least one match and every match is done.
func (s Stats) Complete() bool {
	return s.Total > 0 && s.Done == s.Total
}
