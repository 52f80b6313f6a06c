package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/paths"
	"github.com/zjrosen/checklight/internal/presentation"
)

const (
	stdinPath        = "-"
	skipNotHighlight = "not a highlighted document type"
)

// errIncomplete is returned by scan --check when an item is not done.
var errIncomplete = errors.New("unfinished checkbox items")

var (
	scanFormat string
	scanCheck  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Print checkbox ranges and counts",
	Long: `Scan documents and print every checkbox item grouped by state.

Each item is reported with its byte range and its 1-based line and column.
Pass "-" to read one document from stdin; stdin is always scanned.

Examples:
  checklight scan TODO.md
  checklight scan docs/ --format json | jq '.[].stats'
  cat plan.md | checklight scan - --format yaml
  checklight scan --check TODO.md   # exit 1 unless every item is done`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", string(presentation.FormatText),
		"output format: text, json, or yaml")
	scanCmd.Flags().BoolVar(&scanCheck, "check", false,
		"exit with an error if any scanned item is not done")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := presentation.ParseFormat(scanFormat)
	if err != nil {
		return err
	}

	reports, err := scanDocuments(args, cfg.Filter(), cmd.InOrStdin())
	if err != nil {
		return err
	}
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatReports(reports, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if scanCheck && !allDone(reports) {
		return errIncomplete
	}
	return nil
}

// scanDocuments builds one report per document named by args. Documents the
// filter rejects are reported as skipped.
func scanDocuments(args []string, filter document.Filter, stdin io.Reader) ([]presentation.ReportDTO, error) {
	if len(args) == 1 && args[0] == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		text := string(data)
		return []presentation.ReportDTO{presentation.FromScan(stdinPath, text, checkbox.Scan(text))}, nil
	}

	docPaths, err := paths.ResolveDocuments(args, filter)
	if err != nil {
		return nil, fmt.Errorf("resolving documents: %w", err)
	}
	if len(docPaths) == 0 {
		return nil, errNoDocuments
	}

	reports := make([]presentation.ReportDTO, 0, len(docPaths))
	for _, p := range docPaths {
		if !filter.Matches(p) {
			reports = append(reports, presentation.Skipped(p, skipNotHighlight))
			continue
		}
		text, err := document.NewFile(p).Text()
		if err != nil {
			return nil, err
		}
		b := checkbox.Scan(text)
		log.Debug(log.CatScan, "Scanned document", "path", p, "matches", b.Len())
		reports = append(reports, presentation.FromScan(p, text, b))
	}
	return reports, nil
}

// allDone reports whether every scanned document is complete. Documents
// without checkboxes and skipped documents do not count against it.
func allDone(reports []presentation.ReportDTO) bool {
	for _, r := range reports {
		if r.Skipped == "" && r.Stats.Done != r.Stats.Total {
			return false
		}
	}
	return true
}
