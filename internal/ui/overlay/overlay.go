// Package overlay draws one block of text over another without clearing
// what is underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Anchor is the corner or edge the foreground is placed against.
type Anchor int

const (
	Center Anchor = iota
	Bottom
	BottomRight
)

// Config controls placement.
type Config struct {
	Width  int // background width in cells
	Height int // background height in lines
	Anchor Anchor
	// MarginX and MarginY keep the foreground away from the anchored edges.
	MarginX int
	MarginY int
}

// Place renders fg on top of bg. Both may contain ANSI styling; cells of bg
// outside fg keep their styling.
func Place(cfg Config, fg, bg string) string {
	if fg == "" {
		return bg
	}
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, "")
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of bg starting at column x with fg.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

func origin(cfg Config, w, h int) (x, y int) {
	switch cfg.Anchor {
	case Bottom:
		x = (cfg.Width - w) / 2
		y = cfg.Height - h - cfg.MarginY
	case BottomRight:
		x = cfg.Width - w - cfg.MarginX
		y = cfg.Height - h - cfg.MarginY
	default:
		x = (cfg.Width - w) / 2
		y = (cfg.Height - h) / 2
	}
	return max(0, x), max(0, y)
}
