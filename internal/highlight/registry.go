// Package highlight maps checkbox states to Lip Gloss styles and applies them
// to scanned text.
package highlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/checklight/internal/checkbox"
)

// Palette holds one color per state. Colors are hex ("#73F59F") or ANSI
// indexes ("42"); an empty color leaves that state unstyled.
type Palette struct {
	Done       string `mapstructure:"done" yaml:"done"`
	NotDone    string `mapstructure:"not_done" yaml:"not_done"`
	InProgress string `mapstructure:"in_progress" yaml:"in_progress"`
}

// Get returns the color for state.
func (p Palette) Get(state checkbox.State) string {
	switch state {
	case checkbox.Done:
		return p.Done
	case checkbox.InProgress:
		return p.InProgress
	default:
		return p.NotDone
	}
}

// Set returns a copy of p with the color for state replaced.
func (p Palette) Set(state checkbox.State, color string) Palette {
	switch state {
	case checkbox.Done:
		p.Done = color
	case checkbox.InProgress:
		p.InProgress = color
	default:
		p.NotDone = color
	}
	return p
}

// Registry holds the style for each state. It is built once from configuration
// and is read-only afterwards.
type Registry struct {
	dark   Palette
	light  Palette
	styles map[checkbox.State]lipgloss.Style
}

// NewRegistry builds styles from the palettes used on dark and light terminal
// backgrounds.
func NewRegistry(dark, light Palette) *Registry {
	r := &Registry{
		dark:   dark,
		light:  light,
		styles: make(map[checkbox.State]lipgloss.Style, len(checkbox.States)),
	}
	for _, state := range checkbox.States {
		r.styles[state] = newStyle(light.Get(state), dark.Get(state))
	}
	return r
}

func newStyle(light, dark string) lipgloss.Style {
	// Tabs must survive rendering untouched or offsets drift from the source
	style := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if light == "" && dark == "" {
		return style
	}
	return style.Foreground(lipgloss.AdaptiveColor{Light: light, Dark: dark})
}

// Style returns the style for state.
func (r *Registry) Style(state checkbox.State) lipgloss.Style {
	return r.styles[state]
}

// Dark returns the palette used on dark backgrounds.
func (r *Registry) Dark() Palette {
	return r.dark
}

// Light returns the palette used on light backgrounds.
func (r *Registry) Light() Palette {
	return r.light
}
