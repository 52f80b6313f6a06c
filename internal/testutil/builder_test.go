package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/checkbox"
)

func TestBuilder_Build(t *testing.T) {
	text := NewBuilder().
		WithHeading("Plan").
		Done("one").
		NotDone("two", Indent(2), Bullet("- ")).
		InProgress("three", Marker('~')).
		Build()

	require.Equal(t, "# Plan\n[x] one\n  - [ ] two\n[~] three\n", text)
}

func TestPlanDocument_MatchesScan(t *testing.T) {
	b := PlanDocument()
	stats := checkbox.Summarize(checkbox.Scan(b.Build()))
	require.Equal(t, b.Counts(), stats)
}

func TestNestedDocument_MatchesScan(t *testing.T) {
	b := NestedDocument()
	stats := checkbox.Summarize(checkbox.Scan(b.Build()))
	require.Equal(t, b.Counts(), stats)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 1, stats.Done, "uppercase X is not done")
}

func TestBuilder_WriteFile(t *testing.T) {
	path := PlanDocument().WriteFile(t, t.TempDir(), "docs/plan.md")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, PlanDocument().Build(), string(data))
}
