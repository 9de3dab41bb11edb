package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/darkcti/internal/model"
)

var (
	// ErrNoResult is returned when there is no search result to render or export.
	ErrNoResult = errors.New("no results to export")

	// ErrUnknownFormat is returned for an unsupported report format.
	ErrUnknownFormat = errors.New("unknown report format")
)

// Format is a report output format.
type Format string

const (
	// FormatText is the plain text report.
	FormatText Format = "text"
	// FormatMarkdown is the Markdown report.
	FormatMarkdown Format = "markdown"
	// FormatJSON is the JSON report.
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied name into a Format.
// "txt" and "md" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Writer defines the interface for report output.
type Writer interface {
	// Write renders the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.SearchResult) (int, error)
}

// Options tunes optional report sections.
type Options struct {
	// PieChart adds a Mermaid chart of IOC threat levels to Markdown reports.
	PieChart bool

	// RiskAlert adds a GitHub alert with the overall risk to Markdown reports.
	RiskAlert bool

	// Version is recorded in JSON reports when set.
	Version string
}

// NewWriter returns the writer for format.
func NewWriter(format Format, output io.Writer, opts Options) (Writer, error) {
	switch format {
	case FormatText:
		return NewTextWriter(output), nil
	case FormatMarkdown:
		var mdOpts []MarkdownWriterOption
		if opts.PieChart {
			mdOpts = append(mdOpts, WithPieChart())
		}
		if opts.RiskAlert {
			mdOpts = append(mdOpts, WithRiskAlert())
		}
		return NewMarkdownWriter(output, mdOpts...), nil
	case FormatJSON:
		if opts.Version != "" {
			return NewFullJSONWriter(output, opts.Version, WithPrettyPrint()), nil
		}
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in order.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the result to all configured Writers.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(result *model.SearchResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writeString writes s to the output.
func (b baseWriter) writeString(s string) (int, error) {
	return io.WriteString(b.output, s)
}
