package search

import "errors"

var (
	// ErrEmptyQuery is returned when the query is blank after trimming.
	ErrEmptyQuery = errors.New("please enter a search query")

	// ErrSearchInProgress is returned when a search is started while another
	// one is still running in the same session.
	ErrSearchInProgress = errors.New("a search is already in progress")
)
