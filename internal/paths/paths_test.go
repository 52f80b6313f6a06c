package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/document"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("[ ] item\n"), 0o600))
	}
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, home, Expand("~"))
	require.Equal(t, filepath.Join(home, "notes", "plan.md"), Expand("~/notes/plan.md"))
	require.Equal(t, "plan.md", Expand("plan.md"))
	require.Equal(t, "~other/plan.md", Expand("~other/plan.md"))
}

func TestProjectConfigPath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"empty uses current dir", "", filepath.Join(".checklight", "config.yaml")},
		{"project dir", "/work/project", "/work/project/.checklight/config.yaml"},
		{"config dir", "/work/project/.checklight", "/work/project/.checklight/config.yaml"},
		{"unclean path", "/work/project/../project/", "/work/project/.checklight/config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ProjectConfigPath(tt.dir))
		})
	}
}

func TestUserConfigPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "checklight", "config.yaml"), UserConfigPath())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"b.md",
		"a.md",
		"notes.txt",
		"docs/guide.md",
		".git/COMMIT.md",
		"node_modules/pkg/README.md",
		"vendor/lib/CHANGES.md",
	)

	found, err := Discover(dir, document.NewFilter(nil))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "docs", "guide.md"),
	}, found)
}

func TestDiscover_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.md", "todo.txt")

	found, err := Discover(dir, document.NewFilter([]string{"txt"}))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "todo.txt")}, found)
}

func TestResolveDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.md", "notes.txt", "docs/guide.md")
	filter := document.NewFilter(nil)

	got, err := ResolveDocuments([]string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "docs"),
		filepath.Join(dir, "docs", "guide.md"),
	}, filter)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "docs", "guide.md"),
	}, got)
}

func TestResolveDocuments_Missing(t *testing.T) {
	_, err := ResolveDocuments([]string{filepath.Join(t.TempDir(), "gone.md")}, document.NewFilter(nil))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveDocuments_DefaultsToCurrentDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "plan.md")
	t.Chdir(dir)

	got, err := ResolveDocuments(nil, document.NewFilter(nil))
	require.NoError(t, err)
	require.Equal(t, []string{"plan.md"}, got)
}
