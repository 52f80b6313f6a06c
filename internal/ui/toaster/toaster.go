// Package toaster shows short-lived notifications over the viewer.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/checklight/internal/ui/overlay"
	"github.com/zjrosen/checklight/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Kind selects the toast border and icon.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// DismissMsg hides the toast it was scheduled for. Toasts shown later are
// unaffected.
type DismissMsg struct {
	ID int
}

// Model holds the current toast.
type Model struct {
	id      int
	message string
	kind    Kind
	visible bool
}

// New creates a toaster with nothing showing.
func New() Model {
	return Model{}
}

// Show replaces the current toast and returns the command that dismisses it
// after d.
func (m Model) Show(message string, kind Kind, d time.Duration) (Model, tea.Cmd) {
	m.id++
	m.message = message
	m.kind = kind
	m.visible = true
	id := m.id
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Update hides the toast when its dismissal arrives.
func (m Model) Update(msg DismissMsg) Model {
	if msg.ID == m.id {
		m.visible = false
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the current toast.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	icon := "i"
	switch m.kind {
	case KindSuccess:
		style = style.BorderForeground(styles.StatusSuccessColor)
		icon = "✓"
	case KindError:
		style = style.BorderForeground(styles.StatusErrorColor)
		icon = "✗"
	default:
		style = style.BorderForeground(styles.BorderHighlightColor)
	}
	return style.Render(icon + " " + m.message)
}

// Overlay draws the toast in the bottom right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:   width,
		Height:  height,
		Anchor:  overlay.BottomRight,
		MarginX: 1,
		MarginY: 1,
	}, m.View(), bg)
}
