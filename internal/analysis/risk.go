package analysis

import (
	"slices"

	"github.com/nao1215/darkcti/internal/model"
)

// Assess derives the overall risk level of a set of matched records.
//
// HIGH when any IOC is critical or any actor is highly active, MEDIUM when
// there are more than two IOCs or more than one actor, LOW otherwise.
func Assess(iocs []model.IOC, actors []model.ThreatActor) model.RiskLevel {
	if slices.ContainsFunc(iocs, model.IOC.IsCritical) ||
		slices.ContainsFunc(actors, model.ThreatActor.IsHighlyActive) {
		return model.RiskLevelHigh
	}
	if len(iocs) > 2 || len(actors) > 1 {
		return model.RiskLevelMedium
	}
	return model.RiskLevelLow
}
