package search

import (
	"iter"
	"sync/atomic"

	"github.com/nao1215/darkcti/internal/model"
	"github.com/nao1215/darkcti/internal/pipeline"
)

// Run is a search in progress.
type Run struct {
	events   <-chan pipeline.Progress
	consumed atomic.Bool
	done     chan struct{}

	// result and err are written before done is closed.
	result *model.SearchResult
	err    error
}

func newRun(events <-chan pipeline.Progress) *Run {
	return &Run{events: events, done: make(chan struct{})}
}

// Progress returns the stream of phase events.
// The stream ends when the search finishes. It can be consumed once:
// iterating a second time yields nothing.
func (r *Run) Progress() iter.Seq[pipeline.Progress] {
	return func(yield func(pipeline.Progress) bool) {
		if !r.consumed.CompareAndSwap(false, true) {
			return
		}
		for p := range r.events {
			if !yield(p) {
				return
			}
		}
	}
}

// Done is closed when the search has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the search finishes and returns its result.
func (r *Run) Wait() (*model.SearchResult, error) {
	<-r.done
	return r.result, r.err
}
