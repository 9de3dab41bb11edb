package analysis

import (
	"fmt"
	"strings"

	"github.com/nao1215/darkcti/internal/model"
)

const summaryFindings = "The intelligence suggests ongoing criminal activity with particular focus on " +
	"financial institutions and healthcare sectors. Key findings include evidence of ransomware " +
	"operations, banking trojans, and credential marketplaces."

// Summarize renders the executive summary for a search.
func Summarize(query string, iocs []model.IOC, actors []model.ThreatActor) string {
	return SummarizeWithRisk(query, iocs, actors, Assess(iocs, actors))
}

// SummarizeWithRisk is Summarize with a precomputed risk level.
func SummarizeWithRisk(query string, iocs []model.IOC, actors []model.ThreatActor, risk model.RiskLevel) string {
	types := model.DistinctIOCTypes(iocs)
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = t.String()
	}

	var including string
	if names := strings.Join(model.ActorNames(actors), ", "); names != "" {
		including = " including " + names
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on analysis of dark web sources regarding \"%s\", ", query)
	fmt.Fprintf(&b, "we identified %d indicators of compromise (%s) ", len(iocs), strings.Join(typeNames, ", "))
	fmt.Fprintf(&b, "and %d relevant threat actors%s.\n\n", len(actors), including)
	b.WriteString(summaryFindings)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Risk Assessment**: %s\n", risk)
	b.WriteString("**Confidence Level**: High\n")
	b.WriteString("**Recommendation**: Immediate defensive measures recommended for identified IOCs.")
	return b.String()
}
