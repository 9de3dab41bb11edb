package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/darkcti/internal/model"
)

// MarkdownWriter outputs the CTI report in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter

	// pieChart adds a Mermaid chart of IOC threat levels.
	pieChart bool

	// riskAlert adds an alert block carrying the overall risk level.
	riskAlert bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithPieChart adds a threat level pie chart below the IOC table.
func WithPieChart() MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.pieChart = true
	}
}

// WithRiskAlert adds a risk alert below the executive summary.
func WithRiskAlert() MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.riskAlert = true
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(result *model.SearchResult) (int, error) {
	if result == nil {
		return 0, ErrNoResult
	}
	md := markdown.NewMarkdown(w.output)
	w.render(md, result)
	return len(md.String()), md.Build()
}

// Markdown renders result as the Markdown CTI report without optional sections.
func Markdown(result *model.SearchResult) string {
	md := markdown.NewMarkdown(io.Discard)
	NewMarkdownWriter(io.Discard).render(md, result)
	return md.String()
}

func (w *MarkdownWriter) render(md *markdown.Markdown, result *model.SearchResult) {
	w.writeHeader(md, result)
	w.writeSummary(md, result)
	w.writeIOCs(md, result.IOCs)
	w.writeActors(md, result.Actors)
}

// writeHeader writes the title with the query and timestamp.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.SearchResult) {
	md.H1("Cyber Threat Intelligence Report")
	md.PlainText("")
	md.PlainText(markdown.Bold("Query:") + " " + result.Query)
	md.PlainText(markdown.Bold("Timestamp:") + " " + result.TimestampString())
	md.PlainText("")
}

// writeSummary writes the executive summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.SearchResult) {
	md.H2("Executive Summary")
	md.PlainText("")
	md.PlainText(result.Summary)
	md.PlainText("")

	if w.riskAlert {
		w.writeAlert(md, result)
	}
}

// writeAlert writes an alert matching the overall risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.SearchResult) {
	switch result.RiskLevel {
	case model.RiskLevelHigh:
		md.Cautionf("HIGH risk: %d indicator(s) and %d threat actor(s) require immediate attention.",
			len(result.IOCs), len(result.Actors))
	case model.RiskLevelMedium:
		md.Warningf("MEDIUM risk: %d indicator(s) and %d threat actor(s) should be monitored.",
			len(result.IOCs), len(result.Actors))
	default:
		md.Note("LOW risk: no critical indicators or highly active actors identified.")
	}
	md.PlainText("")
}

// writeIOCs writes the indicator table.
func (w *MarkdownWriter) writeIOCs(md *markdown.Markdown, iocs []model.IOC) {
	md.H2("Indicators of Compromise")
	md.PlainText("")

	rows := make([][]string, len(iocs))
	for i, ioc := range iocs {
		rows[i] = []string{
			escapeCell(ioc.Type.String()),
			markdown.Code(escapeCell(ioc.Value)),
			escapeCell(ioc.Description),
			escapeCell(ioc.ThreatLevel.String()),
			escapeCell(ioc.FirstSeen),
		}
	}
	// The table block ends with a line feed, which leaves a blank line
	// before the next block.
	md.Table(markdown.TableSet{
		Header: []string{"Type", "Value", "Description", "Threat Level", "First Seen"},
		Rows:   rows,
	})

	if w.pieChart && len(iocs) > 0 {
		w.writePieChart(md, iocs)
	}
}

// writePieChart writes a mermaid pie chart of IOC threat levels.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, iocs []model.IOC) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("IOC Threat Level Distribution"),
		piechart.WithShowData(true),
	)

	counts := make(map[model.ThreatLevel]uint64, 4)
	for _, ioc := range iocs {
		counts[ioc.ThreatLevel]++
	}
	levels := []struct {
		level model.ThreatLevel
		label string
	}{
		{model.ThreatLevelCritical, "Critical"},
		{model.ThreatLevelHigh, "High"},
		{model.ThreatLevelMedium, "Medium"},
		{model.ThreatLevelLow, "Low"},
	}
	for _, l := range levels {
		if n := counts[l.level]; n > 0 {
			chart.LabelAndIntValue(l.label, n)
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeActors writes one subsection per threat actor.
func (w *MarkdownWriter) writeActors(md *markdown.Markdown, actors []model.ThreatActor) {
	md.H2("Threat Actors")
	md.PlainText("")

	for _, actor := range actors {
		md.H3(actor.Name)
		md.PlainText("")
		md.BulletList(
			markdown.Bold("Aliases:")+" "+strings.Join(actor.Aliases, ", "),
			markdown.Bold("Motivation:")+" "+actor.Motivation,
			markdown.Bold("Activity Level:")+" "+actor.ActivityLevel.String(),
			markdown.Bold("Targets:")+" "+strings.Join(actor.Targets, ", "),
			markdown.Bold("Geography:")+" "+strings.Join(actor.Geography, ", "),
			markdown.Bold("TTPs:")+" "+strings.Join(actor.TTPs, ", "),
		)
		md.PlainText("")
	}
}

// cellReplacer keeps every IOC on a single table row: line breaks become
// spaces and pipes are escaped.
var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", `\|`)

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
