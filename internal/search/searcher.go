package search

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
	"github.com/nao1215/darkcti/internal/pipeline"
)

// Searcher runs searches against a dataset.
// A Searcher holds no per-search state and is safe for concurrent use.
type Searcher struct {
	store  *dataset.Store
	phases []pipeline.Phase
	now    func() time.Time
	sleep  pipeline.Sleeper
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithPhases replaces the default phases. An empty list keeps the default.
func WithPhases(phases []pipeline.Phase) Option {
	return func(s *Searcher) {
		if len(phases) > 0 {
			s.phases = slices.Clone(phases)
		}
	}
}

// WithClock sets the clock used to timestamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSleeper replaces the phase delay implementation.
func WithSleeper(sleep pipeline.Sleeper) Option {
	return func(s *Searcher) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithLogger sets the logger passed to every pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a Searcher over store.
func NewSearcher(store *dataset.Store, opts ...Option) *Searcher {
	s := &Searcher{
		store:  store,
		phases: pipeline.DefaultPhases(),
		now:    time.Now,
		sleep:  pipeline.Sleep,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phases returns a copy of the configured phases.
func (s *Searcher) Phases() []pipeline.Phase {
	return slices.Clone(s.phases)
}

// Dataset returns the store the searcher matches against.
func (s *Searcher) Dataset() *dataset.Store {
	return s.store
}

// Pipeline builds a fresh pipeline for one search. Matching and assembly
// run once the last phase delay has elapsed. progress may be nil.
func (s *Searcher) Pipeline(progress func(pipeline.Progress)) *pipeline.Pipeline {
	p := pipeline.New(
		pipeline.WithLogger(s.logger),
		pipeline.WithSleeper(s.sleep),
		pipeline.WithProgress(progress),
	)
	p.AddPhases(s.phases...)
	p.AddStep(pipeline.NewMatchStep(s.store))
	p.AddStep(pipeline.NewAssembleStep(s.store, s.now))
	return p
}

// Search runs a search and blocks until it completes.
func (s *Searcher) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	return s.Start(ctx, query).Wait()
}

// Start begins a search in the background.
func (s *Searcher) Start(ctx context.Context, query string) *Run {
	return s.start(ctx, query, nil)
}

// start begins a search; onDone, when set, runs before Wait returns.
func (s *Searcher) start(ctx context.Context, query string, onDone func(*model.SearchResult, error)) *Run {
	// Buffered to the phase count, so the pipeline never blocks on a
	// caller that ignores progress.
	events := make(chan pipeline.Progress, len(s.phases))
	run := newRun(events)
	p := s.Pipeline(func(pr pipeline.Progress) { events <- pr })

	go func() {
		defer close(run.done)
		defer close(events)

		result := &model.SearchResult{Query: query}
		err := p.Execute(ctx, result)
		if err != nil {
			result = nil
		}
		if onDone != nil {
			onDone(result, err)
		}
		run.result, run.err = result, err
	}()

	return run
}

// SearchBatch runs independent searches concurrently, at most concurrency
// at a time. callback, when set, is called as each search completes and
// must be safe for concurrent use. Results are returned in query order.
func (s *Searcher) SearchBatch(
	ctx context.Context,
	queries []string,
	concurrency int,
	callback func(result *model.SearchResult, index int),
) ([]*model.SearchResult, error) {
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline { return s.Pipeline(nil) },
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(s.logger),
	)

	results := make([]*model.SearchResult, len(queries))
	err := bp.ProcessBatchWithCallback(ctx, queries, func(r *model.SearchResult, i int) {
		results[i] = r
		if callback != nil {
			callback(r, i)
		}
	})
	return results, err
}
