package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/darkcti/internal/model"
)

// fileNamePrefix is the common prefix of exported report files.
const fileNamePrefix = "cti-report-"

// FileName returns the export file name for format at moment t,
// e.g. cti-report-2024-03-01.md. The date is taken in UTC.
func FileName(format Format, t time.Time) string {
	return fileNamePrefix + t.UTC().Format(time.DateOnly) + "." + format.Extension()
}

// Render returns the report for result in the given format.
func Render(format Format, result *model.SearchResult, opts Options) ([]byte, error) {
	if result == nil {
		return nil, ErrNoResult
	}
	var buf bytes.Buffer
	w, err := NewWriter(format, &buf, opts)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes the report for result into dir and returns the file path.
// The file name is derived from format and now. A nil result returns
// ErrNoResult and creates nothing.
func Export(dir string, result *model.SearchResult, format Format, now time.Time, opts Options) (string, error) {
	data, err := Render(format, result, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(format, now))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
