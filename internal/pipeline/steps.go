package pipeline

import (
	"context"
	"time"

	"github.com/nao1215/darkcti/internal/analysis"
	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
)

// MatchStep filters the sample IOCs and threat actors by the result query.
type MatchStep struct {
	store *dataset.Store
}

// NewMatchStep creates a step that matches against store.
func NewMatchStep(store *dataset.Store) *MatchStep {
	return &MatchStep{store: store}
}

// Name returns the step name.
func (s *MatchStep) Name() string {
	return "match"
}

// Do fills result.IOCs and result.Actors.
func (s *MatchStep) Do(_ context.Context, result *model.SearchResult) error {
	result.IOCs, result.Actors = analysis.Match(result.Query, s.store.IOCs(), s.store.Actors())
	return nil
}

// AssembleStep derives risk and summary from the matched records and
// stamps the result with the reported sources and the current time.
type AssembleStep struct {
	store *dataset.Store
	now   func() time.Time
}

// NewAssembleStep creates an assembling step. A nil clock means time.Now.
func NewAssembleStep(store *dataset.Store, now func() time.Time) *AssembleStep {
	if now == nil {
		now = time.Now
	}
	return &AssembleStep{store: store, now: now}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do replaces result with the assembled search result.
func (s *AssembleStep) Do(_ context.Context, result *model.SearchResult) error {
	*result = *analysis.BuildResult(result.Query, result.IOCs, result.Actors, s.store.Sources(), s.now())
	return nil
}
