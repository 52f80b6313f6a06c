package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/highlight"
	"github.com/zjrosen/checklight/internal/testutil"
)

func scanText(text string) checkbox.Buckets {
	return checkbox.Scan(text)
}

func testRegistry() *highlight.Registry {
	p := highlight.Palette{Done: "#73F59F", NotDone: "#FF8787", InProgress: "#54A0FF"}
	return highlight.NewRegistry(p, p)
}

func TestColorProfile(t *testing.T) {
	p, err := colorProfile(colorAlways, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, termenv.TrueColor, p)

	p, err = colorProfile(colorNever, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, termenv.Ascii, p)

	t.Setenv("NO_COLOR", "1")
	p, err = colorProfile(colorAuto, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, termenv.Ascii, p)

	_, err = colorProfile("sometimes", &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sometimes")
}

func TestRenderDocument_Colored(t *testing.T) {
	text := testutil.PlanDocument().Build()
	var out bytes.Buffer

	err := renderDocument(&out, document.NewBuffer(stdinPath, text), document.NewFilter(nil), testRegistry(), termenv.TrueColor)
	require.NoError(t, err)
	require.Contains(t, out.String(), "\x1b[")
	require.Equal(t, text, ansi.Strip(out.String()))
}

func TestRenderDocument_NoColor(t *testing.T) {
	text := testutil.PlanDocument().Build()
	var out bytes.Buffer

	err := renderDocument(&out, document.NewBuffer(stdinPath, text), document.NewFilter(nil), testRegistry(), termenv.Ascii)
	require.NoError(t, err)
	require.Equal(t, text, out.String())
}

func TestRenderDocument_UnhighlightedFile(t *testing.T) {
	text := testutil.PlanDocument().Build()
	path := testutil.PlanDocument().WriteFile(t, t.TempDir(), "plan.txt")
	var out bytes.Buffer

	err := renderDocument(&out, document.NewFile(path), document.NewFilter(nil), testRegistry(), termenv.TrueColor)
	require.NoError(t, err)
	require.Equal(t, text, out.String())
}

func TestRenderDocument_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := renderDocument(&out, document.NewFile(filepath.Join(t.TempDir(), "gone.md")),
		document.NewFilter(nil), testRegistry(), termenv.Ascii)
	require.ErrorIs(t, err, document.ErrNotFound)
}
