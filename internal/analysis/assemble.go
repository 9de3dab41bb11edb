package analysis

import (
	"slices"
	"time"

	"github.com/nao1215/darkcti/internal/model"
)

// ReportedSourceCount is how many sources a result claims to have queried.
const ReportedSourceCount = 3

// BuildResult packages matched records into a SearchResult.
// Risk and summary are derived from iocs and actors, the first three sources
// are reported as queried, and now becomes the UTC timestamp.
func BuildResult(query string, iocs []model.IOC, actors []model.ThreatActor, sources []model.Source, now time.Time) *model.SearchResult {
	risk := Assess(iocs, actors)
	return &model.SearchResult{
		Query:     query,
		Summary:   SummarizeWithRisk(query, iocs, actors, risk),
		RiskLevel: risk,
		IOCs:      slices.Clone(iocs),
		Actors:    slices.Clone(actors),
		Sources:   slices.Clone(sources[:min(ReportedSourceCount, len(sources))]),
		Timestamp: now.UTC(),
	}
}
