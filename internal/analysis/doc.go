// Package analysis turns a free-text query into matched records and a short
// written assessment.
//
// Match filters the sample IOCs and threat actors with a few substring and
// keyword heuristics. It never returns an empty set: when nothing matches, the
// first two IOCs and the first actor are used instead. Assess derives the
// overall risk level and Summarize renders the executive summary paragraph
// that embeds it.
//
// Everything in this package is pure. The same inputs always produce the same
// outputs, which keeps exported reports reproducible.
package analysis
