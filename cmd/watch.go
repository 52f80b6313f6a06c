package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/checklight/internal/decorator"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/flags"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/paths"
	"github.com/zjrosen/checklight/internal/presentation"
	"github.com/zjrosen/checklight/internal/pubsub"
	"github.com/zjrosen/checklight/internal/tracing"
	"github.com/zjrosen/checklight/internal/transition"
	"github.com/zjrosen/checklight/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Print progress whenever documents change",
	Long: `Watch documents without the viewer. A summary line is printed for each
document on start and after every change, followed by one line per checkbox
that changed state. Stop with ctrl+c.

Examples:
  checklight watch TODO.md
  checklight watch docs/`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchOptions configures watchDocuments.
type watchOptions struct {
	Filter      document.Filter
	Delay       time.Duration
	Tracer      trace.Tracer
	Transitions bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging("checklight-watch", cmd.ErrOrStderr())
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

	watched := make([]string, 0, len(docPaths))
	for _, p := range docPaths {
		watched = append(watched, document.NewFile(p).Path())
	}
	w, err := watcher.New(watcher.Config{Paths: watched, DebounceDur: watchCoalesce})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("watching documents: %w", err)
	}
	defer func() { _ = w.Stop() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchDocuments(ctx, docPaths, changes, watchOptions{
		Filter:      cfg.Filter(),
		Delay:       cfg.Debounce,
		Tracer:      provider.Tracer(),
		Transitions: cfg.FlagRegistry().Enabled(flags.FlagTransitions),
	}, cmd.OutOrStdout())
}

// watchDocuments scans every document once, then rescans a document each
// time its path arrives on changes, until ctx is done. Each document gets its
// own decorator so rescans of different documents never cancel each other.
func watchDocuments(ctx context.Context, docPaths []string, changes <-chan []string, opts watchOptions, out io.Writer) error {
	formatter := presentation.NewFormatter(out)
	events := make(chan pubsub.Event[decorator.Decorations], len(docPaths))
	decorators := make(map[string]*decorator.Decorator, len(docPaths))
	sources := make(map[string]document.Source, len(docPaths))
	display := make(map[string]string, len(docPaths))

	defer func() {
		for _, d := range decorators {
			d.Close()
		}
	}()

	for _, p := range docPaths {
		src := document.NewFile(p)
		if !opts.Filter.Matches(src.Path()) {
			if _, err := fmt.Fprintf(out, "%s: skipped (%s)\n", p, skipNotHighlight); err != nil {
				return err
			}
			continue
		}

		d := decorator.New(decorator.Config{
			Filter: opts.Filter,
			Delay:  opts.Delay,
			Tracer: opts.Tracer,
		})
		decorators[src.Path()] = d
		sources[src.Path()] = src
		display[src.Path()] = p

		go forward(ctx, d.Subscribe(ctx), events)

		d.ChangeActiveDocument(src)
		if _, err := d.Update(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case changed, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			for _, p := range changed {
				if d, ok := decorators[p]; ok {
					d.ChangeDocument(sources[p])
				}
			}

		case e := <-events:
			if e.Type == pubsub.ClearedEvent {
				continue
			}
			dec := e.Payload
			var shown []transition.Change
			if opts.Transitions {
				shown = dec.Changes
			}
			if err := formatter.FormatUpdate(display[dec.Path], dec.Stats, shown, dec.ScannedAt); err != nil {
				return err
			}
			log.Debug(log.CatScan, "Printed update", "path", dec.Path, "changes", len(dec.Changes))
		}
	}
}

// forward copies events from one decorator into the shared channel.
func forward(ctx context.Context, in <-chan pubsub.Event[decorator.Decorations], out chan<- pubsub.Event[decorator.Decorations]) {
	for e := range in {
		select {
		case out <- e:
		case <-ctx.Done():
			return
		}
	}
}
