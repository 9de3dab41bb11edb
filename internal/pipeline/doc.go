// Package pipeline runs a search through its simulated phases.
//
// A search is a fixed sequence of named phases ("Connecting to TOR
// network...", "Querying dark web sources...", and so on). Each phase waits
// for its delay and then runs the steps attached to it. The pipeline reports a
// Progress event whenever a phase starts, so a caller can show what is going
// on, and fills a model.SearchResult as steps complete.
//
// Phases run strictly in order and none is skipped. Context cancellation is
// honoured between phases and while a phase delay is pending; it exists for
// process shutdown, not as a user-facing abort.
//
// BatchProcessor runs several independent searches concurrently with
// errgroup, giving each search a fresh pipeline.
package pipeline
