// Package config provides configuration types, defaults, and persistence for checklight.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/debounce"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/flags"
	"github.com/zjrosen/checklight/internal/highlight"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/tracing"
)

// ErrInvalidColor is returned when a configured color is neither a hex color
// nor an ANSI index.
var ErrInvalidColor = errors.New("invalid color")

// Theme modes accepted by theme.mode.
const (
	ThemeAuto  = ""
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds all checklight configuration.
type Config struct {
	Colors      highlight.Palette `mapstructure:"colors"`
	LightColors highlight.Palette `mapstructure:"light_colors"`
	Theme       ThemeConfig       `mapstructure:"theme"`
	Debounce    time.Duration     `mapstructure:"debounce"`
	Extensions  []string          `mapstructure:"extensions"`
	AutoRefresh bool              `mapstructure:"auto_refresh"`
	Tracing     tracing.Config    `mapstructure:"tracing"`
	Flags       map[string]bool   `mapstructure:"flags"`
}

// ThemeConfig selects which palette applies.
type ThemeConfig struct {
	// Mode forces "dark" or "light". Empty detects the terminal background.
	Mode string `mapstructure:"mode"`
}

// DefaultColors returns the dark background palette.
func DefaultColors() highlight.Palette {
	return highlight.Palette{
		Done:       "#73F59F",
		NotDone:    "#FF8787",
		InProgress: "#54A0FF",
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/checklight/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "checklight", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Colors:      DefaultColors(),
		LightColors: highlight.Palette{}, // light themes stay unstyled unless configured
		Debounce:    debounce.DefaultDelay,
		Extensions:  append([]string(nil), document.DefaultExtensions...),
		AutoRefresh: true,
		Tracing:     tr,
	}
}

// Registry builds the style registry for the configured palettes. A forced
// theme mode applies one palette to both backgrounds.
func (c Config) Registry() *highlight.Registry {
	switch c.Theme.Mode {
	case ThemeDark:
		return highlight.NewRegistry(c.Colors, c.Colors)
	case ThemeLight:
		return highlight.NewRegistry(c.LightColors, c.LightColors)
	default:
		return highlight.NewRegistry(c.Colors, c.LightColors)
	}
}

// FlagRegistry returns the configured flags over their defaults.
func (c Config) FlagRegistry() *flags.Registry {
	return flags.New(c.Flags)
}

// Filter returns the document filter for the configured extensions.
func (c Config) Filter() document.Filter {
	return document.NewFilter(c.Extensions)
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidatePalette("colors", c.Colors); err != nil {
		return err
	}
	if err := ValidatePalette("light_colors", c.LightColors); err != nil {
		return err
	}
	switch c.Theme.Mode {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("theme.mode must be \"dark\", \"light\", or empty, got %q", c.Theme.Mode)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	if err := ValidateExtensions(c.Extensions); err != nil {
		return err
	}
	if err := flags.Validate(c.Flags); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidatePalette checks every color in p. prefix names the config section
// in error messages.
func ValidatePalette(prefix string, p highlight.Palette) error {
	for _, state := range checkbox.States {
		if err := ValidateColor(p.Get(state)); err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, state, err)
		}
	}
	return nil
}

// ValidateColor accepts an empty string, a hex color (#RGB or #RRGGBB), or an
// ANSI color index between 0 and 255.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if strings.HasPrefix(color, "#") {
		if _, err := colorful.Hex(color); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidColor, color, err)
		}
		return nil
	}
	n, err := strconv.Atoi(color)
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("%w %q: want #RRGGBB or 0-255", ErrInvalidColor, color)
	}
	return nil
}

// ValidateExtensions requires at least one extension, none with a leading dot.
func ValidateExtensions(exts []string) error {
	if len(exts) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	for i, ext := range exts {
		if ext == "" {
			return fmt.Errorf("extensions[%d] is empty", i)
		}
		if strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions[%d] %q must not start with a dot", i, ext)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing tracing.Config) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# checklight configuration

# Colors for checkbox items on dark terminal backgrounds.
# Hex (#RRGGBB) or ANSI index (0-255). Empty leaves that state unstyled.
colors:
  done: "#73F59F"         # [x]
  not_done: "#FF8787"     # [ ]
  in_progress: "#54A0FF"  # [>]

# Colors on light terminal backgrounds (unstyled by default)
# light_colors:
#   done: "#1A7F37"
#   not_done: "#CF222E"
#   in_progress: "#0969DA"

# Force a palette instead of detecting the terminal background
# theme:
#   mode: dark   # dark or light

# Quiet period before a rescan after an edit or a document switch
debounce: 500ms

# File extensions that activate highlighting (no leading dot, case-sensitive)
extensions:
  - md

# Rescan documents when they change on disk
auto_refresh: true

# Distributed tracing of scans
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/checklight/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Optional behavior
# flags:
#   mouse: true             # Mouse support in the viewer
#   transitions: true       # Print state changes in watch mode
#   start-in-preview: false # Open the viewer in markdown preview
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
