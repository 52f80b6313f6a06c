package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/document"
)

func TestFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(path, []byte("[x] done\n"), 0o644))

	f := document.NewFile(path)
	require.Equal(t, path, f.Path())

	text, err := f.Text()
	require.NoError(t, err)
	require.Equal(t, "[x] done\n", text)

	// Text is read at call time, not at construction.
	require.NoError(t, os.WriteFile(path, []byte("[ ] reopened\n"), 0o644))
	text, err = f.Text()
	require.NoError(t, err)
	require.Equal(t, "[ ] reopened\n", text)
}

func TestFile_Missing(t *testing.T) {
	f := document.NewFile(filepath.Join(t.TempDir(), "gone.md"))

	_, err := f.Text()
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestNewFile_RelativePathIsAbsolute(t *testing.T) {
	f := document.NewFile("notes.md")
	require.True(t, filepath.IsAbs(f.Path()))
}

func TestBuffer(t *testing.T) {
	b := document.NewBuffer("stdin.md", "[ ] a")

	snap, err := document.Take(b)
	require.NoError(t, err)
	require.Equal(t, document.Snapshot{Path: "stdin.md", Text: "[ ] a"}, snap)

	b.SetText("[x] a")
	snap, err = document.Take(b)
	require.NoError(t, err)
	require.Equal(t, "[x] a", snap.Text)
}

func TestFilter_Matches(t *testing.T) {
	f := document.NewFilter(nil)

	tests := []struct {
		path string
		want bool
	}{
		{path: "README.md", want: true},
		{path: "/a/b/notes.md", want: true},
		{path: "archive.tar.md", want: true},
		{path: "README.MD", want: false},
		{path: "notes.markdown", want: false},
		{path: "md", want: false},
		{path: "notes.txt", want: false},
		{path: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, f.Matches(tt.path))
		})
	}
}

func TestFilter_CustomExtensions(t *testing.T) {
	f := document.NewFilter([]string{"md", "markdown", "txt"})

	require.True(t, f.Matches("notes.markdown"))
	require.True(t, f.Matches("todo.txt"))
	require.False(t, f.Matches("main.go"))
}
