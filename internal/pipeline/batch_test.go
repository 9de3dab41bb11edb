package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))
		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(-1))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	store := dataset.Default()
	factory := func() *Pipeline {
		p := New(WithSleeper(noSleep))
		p.AddPhases(DefaultPhases()...)
		p.AddStep(NewMatchStep(store))
		p.AddStep(NewAssembleStep(store, nil))
		return p
	}

	t.Run("returns results in query order", func(t *testing.T) {
		t.Parallel()

		queries := store.SampleQueries()
		results, err := NewBatchProcessor(factory, WithConcurrency(3)).ProcessBatch(t.Context(), queries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(queries) {
			t.Fatalf("expected %d results, got %d", len(queries), len(results))
		}
		for i, r := range results {
			if r == nil {
				t.Fatalf("result %d is nil", i)
			}
			if r.Query != queries[i] {
				t.Errorf("result %d query = %q, want %q", i, r.Query, queries[i])
			}
			if len(r.IOCs) == 0 || len(r.Actors) == 0 {
				t.Errorf("result %d has empty records", i)
			}
		}
	})

	t.Run("failed search leaves nil entry", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := func() *Pipeline {
			p := New(WithSleeper(noSleep))
			p.AddStep(&mockStep{name: "boom", doFunc: func(_ context.Context, r *model.SearchResult) error {
				if r.Query == "bad" {
					return errBoom
				}
				return nil
			}})
			return p
		}

		results, err := NewBatchProcessor(failing).ProcessBatch(t.Context(), []string{"good", "bad"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0] == nil || results[1] != nil {
			t.Errorf("unexpected results: %v", results)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		slow := func() *Pipeline {
			p := New(WithSleeper(func(ctx context.Context, _ time.Duration) error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
				return ctx.Err()
			}))
			p.AddPhase(Phase{Name: "wait"})
			return p
		}

		queries := []string{"a", "b", "c", "d", "e", "f"}
		if _, err := NewBatchProcessor(slow, WithConcurrency(2)).ProcessBatch(t.Context(), queries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent searches, saw %d", peak.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := NewBatchProcessor(factory).ProcessBatch(ctx, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestBatchProcessorCallback(t *testing.T) {
	t.Parallel()

	store := dataset.Default()
	factory := func() *Pipeline {
		p := New(WithSleeper(noSleep))
		p.AddStep(NewMatchStep(store))
		return p
	}

	var mu sync.Mutex
	seen := make(map[int]string)
	err := NewBatchProcessor(factory).ProcessBatchWithCallback(t.Context(), []string{"x", "y"}, func(r *model.SearchResult, i int) {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = r.Query
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[0] != "x" || seen[1] != "y" {
		t.Errorf("unexpected callbacks: %v", seen)
	}
}
