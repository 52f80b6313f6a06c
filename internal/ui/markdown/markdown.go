// Package markdown provides styled markdown rendering for the viewer preview.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by NewWithStyle besides the empty auto style.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// noMarginStyle is a JSON style that removes document margins.
// It inherits from the base style but overrides margin to 0.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with checklight-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a markdown renderer with the given width that detects the
// terminal background.
func New(width int) (*Renderer, error) {
	return NewWithStyle(width, "")
}

// NewWithStyle creates a renderer with a fixed glamour standard style.
// An empty style detects the terminal background.
func NewWithStyle(width int, style string) (*Renderer, error) {
	base := glamour.WithAutoStyle()
	switch style {
	case "":
	case StyleDark, StyleLight, StyleNoTTY:
		base = glamour.WithStandardStyle(style)
	default:
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	r, err := glamour.NewTermRenderer(
		base,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the configured style name, empty for auto.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
