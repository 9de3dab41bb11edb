package model

import "time"

// TimestampLayout is the ISO-8601 layout used for SearchResult timestamps.
// It mirrors the millisecond precision of JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// SearchResult is the outcome of a single search.
// It is created once per search and never modified afterwards.
type SearchResult struct {
	// Query is the free-text query as typed by the user.
	Query string `json:"query"`

	// Summary is the executive summary paragraph.
	Summary string `json:"summary"`

	// RiskLevel is the overall risk derived from IOCs and Actors.
	RiskLevel RiskLevel `json:"risk_level"`

	// IOCs are the matched indicators. Never empty.
	IOCs []IOC `json:"iocs"`

	// Actors are the matched threat actors. Never empty.
	Actors []ThreatActor `json:"actors"`

	// Sources are the sources reported as queried.
	Sources []Source `json:"sources"`

	// Timestamp is when the result was assembled, in UTC.
	Timestamp time.Time `json:"timestamp"`
}

// TimestampString returns the result timestamp in ISO-8601 (UTC) form.
func (r *SearchResult) TimestampString() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}
