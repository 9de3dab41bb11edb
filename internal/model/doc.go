// Package model defines the core data structures used throughout darkcti.
//
// This package contains the following main types:
//   - Source: A dark web search engine or site the search pretends to query
//   - IOC: An indicator of compromise (IP, domain, hash, bitcoin wallet)
//   - ThreatActor: A threat actor profile with aliases, targets and TTPs
//   - SearchResult: The outcome of a single search, ready to render or export
//
// All records are plain values. The sample collections are never mutated after
// startup and a SearchResult is owned by whoever asked for it, so nothing in
// this package needs locking.
package model
