package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/checklight/internal/checkbox"
)

// TruncateString truncates s to fit within maxWidth cells, adding an
// ellipsis when it is cut. ANSI sequences in s are preserved.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// FormatStats renders counts as "3/5 done · 1 in progress · 1 open".
// Zero-valued secondary counts are omitted.
func FormatStats(s checkbox.Stats) string {
	if s.Total == 0 {
		return "no checkboxes"
	}
	parts := []string{fmt.Sprintf("%d/%d done", s.Done, s.Total)}
	if s.InProgress > 0 {
		parts = append(parts, fmt.Sprintf("%d in progress", s.InProgress))
	}
	if s.NotDone > 0 {
		parts = append(parts, fmt.Sprintf("%d open", s.NotDone))
	}
	return strings.Join(parts, " · ")
}

// ProgressBar renders a width-cell bar filled to percent (0-100) followed by
// the rounded percentage.
func ProgressBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := int(percent/100*float64(width) + 0.5)
	bar := ProgressFilledStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, percent)
}
