// Package report renders search results.
//
// This package contains writers for different output formats:
//   - TextWriter: the plain text CTI report, also used for .txt exports
//   - MarkdownWriter: the Markdown CTI report, also used for .md exports
//   - JSONWriter: structured JSON output for tool integration
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Export writes a
// report to a cti-report-<date> file.
//
// Output is a pure function of the SearchResult: rendering the same result
// twice yields identical bytes.
package report
