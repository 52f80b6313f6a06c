package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/checklight/internal/decorator"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/flags"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/mode/viewer"
	"github.com/zjrosen/checklight/internal/paths"
	"github.com/zjrosen/checklight/internal/tracing"
	"github.com/zjrosen/checklight/internal/watcher"
)

// watchCoalesce groups the several events one save produces. The decorator
// applies the configured debounce on top.
const watchCoalesce = 100 * time.Millisecond

// errNoDocuments is returned when the arguments name no documents.
var errNoDocuments = errors.New("no documents found; pass files or run in a directory with markdown files")

var noAutoRefresh bool

var viewCmd = &cobra.Command{
	Use:   "view [files...]",
	Short: "Open the interactive viewer",
	Long: `Open the interactive viewer on the given files or directories.

Directories are searched for documents with a configured extension. Files
are shown even when their type is not highlighted.

Examples:
  checklight view TODO.md
  checklight view docs/
  checklight view --no-auto-refresh plan.md`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	for _, c := range []*cobra.Command{rootCmd, viewCmd} {
		c.Flags().BoolVar(&noAutoRefresh, "no-auto-refresh", false,
			"disable rescans when files change on disk")
	}
}

func runView(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging("checklight", nil)
	if err != nil {
		return err
	}
	defer cleanup()

	docPaths, err := paths.ResolveDocuments(args, cfg.Filter())
	if err != nil {
		return fmt.Errorf("resolving documents: %w", err)
	}
	if len(docPaths) == 0 {
		return errNoDocuments
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(provider)

	dec := decorator.New(decorator.Config{
		Registry: cfg.Registry(),
		Filter:   cfg.Filter(),
		Delay:    cfg.Debounce,
		Tracer:   provider.Tracer(),
	})
	defer dec.Close()

	docs := make([]document.Source, 0, len(docPaths))
	watched := make([]string, 0, len(docPaths))
	for _, p := range docPaths {
		f := document.NewFile(p)
		docs = append(docs, f)
		watched = append(watched, f.Path())
	}

	var changes <-chan []string
	if cfg.AutoRefresh && !noAutoRefresh {
		w, err := watcher.New(watcher.Config{Paths: watched, DebounceDur: watchCoalesce})
		if err != nil {
			return err
		}
		if changes, err = w.Start(); err != nil {
			return fmt.Errorf("watching documents: %w", err)
		}
		defer func() { _ = w.Stop() }()
	}

	ff := cfg.FlagRegistry()
	zone.NewGlobal()

	m := viewer.New(viewer.Config{
		Decorator: dec,
		Documents: docs,
		Changes:   changes,
		Preview:   ff.Enabled(flags.FlagStartInPreview),
		Logs:      log.NewListener(cmd.Context()),
	})
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if ff.Enabled(flags.FlagMouse) {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func shutdownTracing(p *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
}
