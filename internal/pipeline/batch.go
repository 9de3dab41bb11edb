package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/darkcti/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of searches a BatchProcessor runs at once
// unless WithConcurrency says otherwise.
const DefaultConcurrency = 4

// BatchProcessor runs several independent searches concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each search.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent searches.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent searches.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// pipelineFactory is called once per query, so no state is shared between
// searches.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch searches every query and returns the results in query order.
// A failed search leaves a nil entry and does not stop the others; the
// returned error is only set when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, queries []string) ([]*model.SearchResult, error) {
	results := make([]*model.SearchResult, len(queries))
	err := bp.ProcessBatchWithCallback(ctx, queries, func(result *model.SearchResult, index int) {
		// Each index is written by exactly one goroutine.
		results[index] = result
	})
	return results, err
}

// ProcessBatchWithCallback searches every query and calls callback as each
// search completes. The callback is called from the goroutine that ran the
// search, so it must be safe for concurrent use. Failed searches are logged
// and reported to the callback with a nil result.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	queries []string,
	callback func(result *model.SearchResult, index int),
) error {
	bp.logger.Info("starting batch search",
		"total_queries", len(queries),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, query := range queries {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := &model.SearchResult{Query: query}
			if err := bp.pipelineFactory().Execute(ctx, result); err != nil {
				bp.logger.Warn("search failed",
					"query", query,
					"error", err,
				)
				if ctx.Err() != nil {
					return ctx.Err()
				}
				callback(nil, i)
				return nil
			}

			bp.logger.Debug("search completed",
				"query", query,
				"index", i+1,
				"total", len(queries),
			)
			callback(result, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch search complete",
		"total_queries", len(queries),
		"elapsed", time.Since(startTime),
	)
	return err
}
