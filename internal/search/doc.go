// Package search runs darkcti searches.
//
// Searcher wires the sample dataset into a phase pipeline. Start returns a
// Run whose Progress method streams one event per phase and whose Wait
// method returns the terminal SearchResult.
//
// Session adds the single-user state around a Searcher: it refuses blank
// queries and searches without a configured LLM provider, allows only one
// search at a time, keeps the last result and exports it.
package search
