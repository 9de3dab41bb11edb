package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/darkcti/internal/model"
)

// JSONWriter outputs CTI results as JSON for other tools to consume.
type JSONWriter struct {
	baseWriter

	// prefix and indent are passed to json.Encoder.SetIndent.
	// Both empty means compact output.
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, starting every line with
// prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in JSON format.
func (w *JSONWriter) Write(result *model.SearchResult) (int, error) {
	if result == nil {
		return 0, ErrNoResult
	}
	return w.writeJSON(NewJSONResult(result))
}

// WriteBatch outputs several results as one JSON array.
func (w *JSONWriter) WriteBatch(results []*model.SearchResult) (int, error) {
	out := make([]JSONResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, NewJSONResult(r))
		}
	}
	return w.writeJSON(out)
}

// writeJSON encodes v followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// JSONResult is a SearchResult with its timestamp in the report layout.
// It is the JSON shape of a result everywhere darkcti emits one.
type JSONResult struct {
	*model.SearchResult
	Timestamp string `json:"timestamp"`
}

// NewJSONResult wraps r for encoding.
func NewJSONResult(r *model.SearchResult) JSONResult {
	return JSONResult{SearchResult: r, Timestamp: r.TimestampString()}
}

// JSONReport wraps a result with the version of the tool that produced it.
type JSONReport struct {
	// Version is the darkcti version that generated this report.
	Version string `json:"version"`

	// Result is the search result.
	Result JSONResult `json:"result"`
}

// FullJSONWriter outputs results with a metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the darkcti version string.
	version string
}

// NewFullJSONWriter creates a writer for results with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the result wrapped with metadata.
func (w *FullJSONWriter) Write(result *model.SearchResult) (int, error) {
	if result == nil {
		return 0, ErrNoResult
	}
	return w.writeJSON(JSONReport{Version: w.version, Result: NewJSONResult(result)})
}
