// Package flags provides opt-in and opt-out switches for optional behavior.
// Flags are read-only after initialization and unknown flags are disabled.
package flags

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/zjrosen/checklight/internal/log"
)

const (
	// FlagMouse enables mouse support in the viewer (tab clicks, wheel scrolling).
	FlagMouse = "mouse"

	// FlagTransitions prints a line per checkbox that changed state in watch mode.
	FlagTransitions = "transitions"

	// FlagStartInPreview opens the viewer with the markdown preview shown.
	FlagStartInPreview = "start-in-preview"
)

// Defaults holds the value of every known flag when config does not set it.
var Defaults = map[string]bool{
	FlagMouse:          true,
	FlagTransitions:    true,
	FlagStartInPreview: false,
}

// Registry holds flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from Defaults overridden by overrides.
func New(overrides map[string]bool) *Registry {
	flags := maps.Clone(Defaults)
	maps.Copy(flags, overrides)
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// Validate rejects flag names that are not in Defaults.
func Validate(flags map[string]bool) error {
	var unknown []string
	for name := range flags {
		if _, ok := Defaults[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	known := slices.Sorted(maps.Keys(Defaults))
	return fmt.Errorf("unknown flags %s (known: %s)", strings.Join(unknown, ", "), strings.Join(known, ", "))
}
