package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Rescan", binding: km.Rescan, expected: []string{"r"}},
		{name: "Preview", binding: km.Preview, expected: []string{"p"}},
		{name: "Help", binding: km.Help, expected: []string{"?"}},
		{name: "Quit", binding: km.Quit, expected: []string{"q", "ctrl+c"}},
		{name: "NextDoc", binding: km.NextDoc, expected: []string{"tab", "]"}},
		{name: "PrevDoc", binding: km.PrevDoc, expected: []string{"shift+tab", "["}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_Matches(t *testing.T) {
	km := DefaultKeyMap()

	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, km.Quit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, km.NextDoc))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyShiftTab}, km.PrevDoc))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, km.Rescan))
}

func TestDefaultKeyMap_NoDuplicateKeys(t *testing.T) {
	km := DefaultKeyMap()

	seen := make(map[string]string)
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestShortHelp_IncludesHelpAndQuit(t *testing.T) {
	km := DefaultKeyMap()
	short := km.ShortHelp()

	require.Contains(t, short, km.Help)
	require.Contains(t, short, km.Quit)
}
