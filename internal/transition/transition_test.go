package transition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/transition"
)

func detect(oldText, newText string) []transition.Change {
	return transition.Detect(oldText, checkbox.Scan(oldText), newText, checkbox.Scan(newText))
}

func TestDetect_Toggle(t *testing.T) {
	changes := detect("[ ] a\n[ ] b\n", "[ ] a\n[x] b\n")

	require.Len(t, changes, 1)
	require.Equal(t, checkbox.NotDone, changes[0].From)
	require.Equal(t, checkbox.Done, changes[0].To)
	require.Equal(t, 1, changes[0].Line)
	require.Equal(t, "[x] b", changes[0].Text)
	require.Equal(t, checkbox.Range{Start: 6, End: 11}, changes[0].Range)
}

func TestDetect_ThroughInsertedLines(t *testing.T) {
	changes := detect("[>] ship it\n", "# Plan\n\nintro\n[x] ship it\n")

	require.Len(t, changes, 1)
	require.Equal(t, checkbox.InProgress, changes[0].From)
	require.Equal(t, checkbox.Done, changes[0].To)
	require.Equal(t, 3, changes[0].Line)
}

func TestDetect_NoChanges(t *testing.T) {
	require.Empty(t, detect("[ ] a\n[x] b\n", "[ ] a\n[x] b\n"))
	require.Empty(t, detect("[ ] a\n", "[ ] a edited\n"))
}

func TestDetect_AddedAndRemovedAreIgnored(t *testing.T) {
	require.Empty(t, detect("[ ] a\n", "[ ] a\n[x] b\n"))
	require.Empty(t, detect("[ ] a\n", "no boxes"))
	require.Empty(t, detect("", "[x] new"))
}

func TestDetect_MultipleChanges(t *testing.T) {
	changes := detect("[ ] a\n[ ] b\n[x] c\n", "[>] a\n[ ] b\n[ ] c\n")

	require.Len(t, changes, 2)
	require.Equal(t, checkbox.InProgress, changes[0].To)
	require.Equal(t, 0, changes[0].Line)
	require.Equal(t, checkbox.NotDone, changes[1].To)
	require.Equal(t, 2, changes[1].Line)
}
