package report

import (
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/darkcti/internal/model"
)

// TextWriter outputs the plain text CTI report.
// The layout uses ASCII underlines only, so it reads the same in a
// terminal, a pager or a .txt file.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in plain text.
func (w *TextWriter) Write(result *model.SearchResult) (int, error) {
	if result == nil {
		return 0, ErrNoResult
	}
	return w.writeString(PlainText(result))
}

// PlainText renders result as the plain text CTI report.
func PlainText(result *model.SearchResult) string {
	var sb strings.Builder

	writeTextHeader(&sb, result)
	writeTextSection(&sb, "EXECUTIVE SUMMARY")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")
	writeTextIOCs(&sb, result.IOCs)
	writeTextActors(&sb, result.Actors)

	return sb.String()
}

// upper upper-cases an enum value for display.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

func writeTextHeader(sb *strings.Builder, result *model.SearchResult) {
	sb.WriteString("CYBER THREAT INTELLIGENCE REPORT\n")
	sb.WriteString(strings.Repeat("=", 37))
	sb.WriteString("\n\n")
	sb.WriteString("Query: " + result.Query + "\n")
	sb.WriteString("Timestamp: " + result.TimestampString() + "\n\n")
}

// writeTextSection writes a title underlined to its own width.
func writeTextSection(sb *strings.Builder, title string) {
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", len(title)))
	sb.WriteString("\n")
}

func writeTextIOCs(sb *strings.Builder, iocs []model.IOC) {
	writeTextSection(sb, "INDICATORS OF COMPROMISE")
	for _, ioc := range iocs {
		sb.WriteString("Type: " + upper(ioc.Type.String()) + "\n")
		sb.WriteString("Value: " + ioc.Value + "\n")
		sb.WriteString("Description: " + ioc.Description + "\n")
		sb.WriteString("Threat Level: " + upper(ioc.ThreatLevel.String()) + "\n")
		sb.WriteString("First Seen: " + ioc.FirstSeen + "\n")
		sb.WriteString("Source: " + ioc.Source + "\n\n")
	}
}

func writeTextActors(sb *strings.Builder, actors []model.ThreatActor) {
	writeTextSection(sb, "THREAT ACTORS")
	for _, actor := range actors {
		sb.WriteString("Name: " + actor.Name + "\n")
		sb.WriteString("Aliases: " + strings.Join(actor.Aliases, ", ") + "\n")
		sb.WriteString("Motivation: " + actor.Motivation + "\n")
		sb.WriteString("Activity Level: " + upper(actor.ActivityLevel.String()) + "\n")
		sb.WriteString("Targets: " + strings.Join(actor.Targets, ", ") + "\n")
		sb.WriteString("Geography: " + strings.Join(actor.Geography, ", ") + "\n")
		sb.WriteString("TTPs: " + strings.Join(actor.TTPs, ", ") + "\n\n")
	}
}
