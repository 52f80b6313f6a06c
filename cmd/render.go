package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/highlight"
)

// Values accepted by render --color.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

var renderColor string

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Print a document with its checkboxes highlighted",
	Long: `Print a document with each checkbox item colored by state. The text is
otherwise unchanged. Reads stdin when no file is given or the file is "-".

Files whose type is not highlighted are printed as is.

Examples:
  checklight render TODO.md
  checklight render --color always TODO.md | less -R
  git show HEAD:TODO.md | checklight render`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderColor, "color", colorAuto,
		"when to emit colors: auto, always, or never")
}

func runRender(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	profile, err := colorProfile(renderColor, out)
	if err != nil {
		return err
	}

	var src document.Source
	if len(args) == 0 || args[0] == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		src = document.NewBuffer(stdinPath, string(data))
	} else {
		src = document.NewFile(args[0])
	}

	return renderDocument(out, src, cfg.Filter(), cfg.Registry(), profile)
}

// colorProfile maps a --color value to a termenv profile. auto follows the
// terminal behind w and the NO_COLOR / CLICOLOR_FORCE conventions.
func colorProfile(mode string, w io.Writer) (termenv.Profile, error) {
	switch mode {
	case colorAlways:
		return termenv.TrueColor, nil
	case colorNever:
		return termenv.Ascii, nil
	case colorAuto, "":
		return termenv.NewOutput(w).EnvColorProfile(), nil
	}
	return termenv.Ascii, fmt.Errorf("unknown --color value %q (want auto, always, or never)", mode)
}

// renderDocument writes src to w with checkboxes styled by registry. Stdin is
// always highlighted; files only when filter accepts them.
func renderDocument(w io.Writer, src document.Source, filter document.Filter, registry *highlight.Registry, profile termenv.Profile) error {
	text, err := src.Text()
	if err != nil {
		return err
	}

	if src.Path() != stdinPath && !filter.Matches(src.Path()) {
		_, err = io.WriteString(w, text)
		return err
	}

	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(profile)
	defer lipgloss.SetColorProfile(prev)

	_, err = io.WriteString(w, highlight.Render(text, checkbox.Scan(text), registry))
	return err
}
