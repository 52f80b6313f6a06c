// Package paths provides path resolution utilities.
package paths

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zjrosen/checklight/internal/document"
)

const (
	// ConfigDirName is the per-project configuration directory.
	ConfigDirName = ".checklight"
	// ConfigFileName is the configuration file inside a config directory.
	ConfigFileName = "config.yaml"
)

// skipDirs are never descended into by Discover.
var skipDirs = []string{"node_modules", "vendor"}

// Expand replaces a leading "~" with the user's home directory.
func Expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ProjectConfigPath returns the project config file for dir.
//   - "" -> ".checklight/config.yaml"
//   - "/path/to/project" -> "/path/to/project/.checklight/config.yaml"
//   - "/path/to/project/.checklight" -> "/path/to/project/.checklight/config.yaml"
func ProjectConfigPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Join(dir, ConfigFileName)
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName)
}

// UserConfigPath returns ~/.config/checklight/config.yaml, or "" when the
// home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "checklight", ConfigFileName)
}

// Discover walks dir and returns the files accepted by filter, sorted.
// Hidden directories and dependency directories are skipped.
func Discover(dir string, filter document.Filter) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.Matches(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(found)
	return found, nil
}

// ResolveDocuments expands args into document paths. Directories are
// searched with Discover; files are kept whether or not filter accepts them.
// With no args the current directory is searched. Duplicates are dropped.
func ResolveDocuments(args []string, filter document.Filter) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		arg = Expand(arg)
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		found, err := Discover(arg, filter)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}
