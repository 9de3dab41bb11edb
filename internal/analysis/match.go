package analysis

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/darkcti/internal/model"
)

const (
	fallbackIOCCount   = 2
	fallbackActorCount = 1
)

// keywordRule includes an IOC whose lowercased description contains want
// whenever the lowercased query contains trigger.
type keywordRule struct {
	trigger string
	want    string
}

var iocKeywordRules = []keywordRule{
	{trigger: "ransomware", want: "ransomware"},
	{trigger: "banking", want: "banking"},
	{trigger: "financial", want: "banking"},
}

// lower folds s with Unicode-aware lower-casing.
// A cases.Caser is stateful, so a fresh one is created per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Match selects the IOCs and threat actors relevant to query.
// The query is used as given, surrounding whitespace included; callers trim
// user input. Both returned slices are non-empty as long as the inputs are
// non-empty.
func Match(query string, iocs []model.IOC, actors []model.ThreatActor) ([]model.IOC, []model.ThreatActor) {
	q := lower(query)
	return MatchIOCs(q, iocs), MatchActors(q, actors)
}

// MatchIOCs returns the IOCs matching the lowercased query q in collection
// order, or the first two IOCs when nothing matches.
func MatchIOCs(q string, iocs []model.IOC) []model.IOC {
	matched := make([]model.IOC, 0, len(iocs))
	if q != "" {
		for _, ioc := range iocs {
			if iocMatches(q, ioc) {
				matched = append(matched, ioc)
			}
		}
	}
	if len(matched) == 0 {
		return slices.Clone(iocs[:min(fallbackIOCCount, len(iocs))])
	}
	return matched
}

func iocMatches(q string, ioc model.IOC) bool {
	desc := lower(ioc.Description)
	if strings.Contains(desc, q) {
		return true
	}
	if strings.Contains(q, ioc.Type.String()) {
		return true
	}
	for _, rule := range iocKeywordRules {
		if strings.Contains(q, rule.trigger) && strings.Contains(desc, rule.want) {
			return true
		}
	}
	return false
}

// MatchActors returns the threat actors matching the lowercased query q in
// collection order, or the first actor when nothing matches.
func MatchActors(q string, actors []model.ThreatActor) []model.ThreatActor {
	matched := make([]model.ThreatActor, 0, len(actors))
	if q != "" {
		for _, actor := range actors {
			if actorMatches(q, actor) {
				matched = append(matched, actor)
			}
		}
	}
	if len(matched) == 0 {
		return slices.Clone(actors[:min(fallbackActorCount, len(actors))])
	}
	return matched
}

func actorMatches(q string, actor model.ThreatActor) bool {
	if strings.Contains(lower(actor.Name), q) || strings.Contains(lower(actor.Motivation), q) {
		return true
	}
	if slices.ContainsFunc(actor.Targets, func(t string) bool { return strings.Contains(lower(t), q) }) {
		return true
	}
	// The keyword checks below are case-sensitive against the stored values.
	if strings.Contains(q, "ransomware") && anyContains(actor.TTPs, "Ransomware") {
		return true
	}
	if strings.Contains(q, "financial") && anyContains(actor.Targets, "Financial") {
		return true
	}
	return false
}

func anyContains(values []string, sub string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.Contains(v, sub) })
}
