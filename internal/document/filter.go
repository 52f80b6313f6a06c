package document

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the document types that activate scanning.
var DefaultExtensions = []string{"md"}

// Filter decides which documents are scanned, by file extension.
type Filter struct {
	Extensions []string // without leading dot, compared case-sensitively
}

// NewFilter returns a filter for the given extensions, or DefaultExtensions when empty.
func NewFilter(extensions []string) Filter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return Filter{Extensions: extensions}
}

// Matches reports whether path has one of the filter's extensions.
// The extension is the text after the last dot of the base name; "README.MD"
// does not match "md".
func (f Filter) Matches(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	return slices.Contains(f.Extensions, ext)
}
