// Package presentation formats scan results for the command line.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/transition"
	"github.com/zjrosen/checklight/internal/ui/styles"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, or yaml)", s)
}

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatReports writes reports in the given format.
func (f *Formatter) FormatReports(reports []ReportDTO, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	case FormatYAML:
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(reports); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return f.formatText(reports)
	}
}

// formatText prints a summary line per document followed by its matches in
// document order.
func (f *Formatter) formatText(reports []ReportDTO) error {
	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if r.Skipped != "" {
			if _, err := fmt.Fprintf(f.writer, "%s: skipped (%s)\n", r.Path, r.Skipped); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(f.writer, "%s: %s (%.0f%%)\n", r.Path, styles.FormatStats(r.Stats), r.Stats.Progress); err != nil {
			return err
		}

		type row struct {
			state checkbox.State
			RangeDTO
		}
		var rows []row
		for _, state := range checkbox.States {
			for _, rd := range r.get(state) {
				rows = append(rows, row{state: state, RangeDTO: rd})
			}
		}
		slices.SortFunc(rows, func(a, b row) int { return a.Start - b.Start })

		for _, rw := range rows {
			loc := fmt.Sprintf("%d:%d", rw.Line, rw.Column)
			if _, err := fmt.Fprintf(f.writer, "  %-8s %-11s %s\n", loc, rw.state, rw.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatUpdate writes one rescan of a watched document: a summary line and a
// line per checkbox that changed state.
func (f *Formatter) FormatUpdate(path string, stats checkbox.Stats, changes []transition.Change, at time.Time) error {
	if _, err := fmt.Fprintf(f.writer, "%s %s: %s (%.0f%%)\n",
		at.Format("15:04:05"), path, styles.FormatStats(stats), stats.Progress); err != nil {
		return err
	}
	for _, c := range changes {
		if _, err := fmt.Fprintf(f.writer, "  line %d: %s -> %s  %s\n",
			c.Line+1, c.From, c.To, trimTerminator(c.Text)); err != nil {
			return err
		}
	}
	return nil
}
