package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/darkcti/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, result *model.SearchResult) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, result *model.SearchResult) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, result)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// noSleep is a Sleeper that returns immediately unless ctx is done.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func TestDefaultPhases(t *testing.T) {
	t.Parallel()

	phases := DefaultPhases()
	want := []string{
		"Connecting to TOR network...",
		"Querying dark web sources...",
		"Analyzing results with LLM...",
		"Extracting IOCs...",
		"Generating threat intelligence...",
	}
	if len(phases) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(phases))
	}
	for i, name := range want {
		if phases[i].Name != name {
			t.Errorf("phase %d = %q, want %q", i, phases[i].Name, name)
		}
		if phases[i].Delay != 800*time.Millisecond {
			t.Errorf("phase %d delay = %v", i, phases[i].Delay)
		}
	}
	if got := TotalDelay(phases); got != 4*time.Second {
		t.Errorf("TotalDelay() = %v, want 4s", got)
	}
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.PhaseCount() != 0 || p.StepCount() != 0 {
		t.Errorf("expected empty pipeline, got %d phases and %d steps", p.PhaseCount(), p.StepCount())
	}
	if p.logger == nil {
		t.Error("expected default logger")
	}
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("attaches to the last phase", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddPhases(PhasesWithDelay(0)...)
		p.AddStep(&mockStep{name: "first"})
		p.AddStep(&mockStep{name: "second"})

		if p.PhaseCount() != 5 {
			t.Errorf("expected 5 phases, got %d", p.PhaseCount())
		}
		names := p.StepNames()
		if len(names) != 2 || names[0] != "first" || names[1] != "second" {
			t.Errorf("StepNames() = %v", names)
		}
		if len(p.stages[4].steps) != 2 {
			t.Errorf("expected steps on the last phase, got %d", len(p.stages[4].steps))
		}
	})

	t.Run("creates an unnamed phase when empty", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "only"})

		if p.PhaseCount() != 1 {
			t.Errorf("expected 1 phase, got %d", p.PhaseCount())
		}
		if p.Phases()[0] != (Phase{}) {
			t.Errorf("expected zero phase, got %+v", p.Phases()[0])
		}
	})
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("emits progress and runs steps in order", func(t *testing.T) {
		t.Parallel()

		var events []Progress
		var order []string
		var slept []time.Duration

		p := New(
			WithProgress(func(pr Progress) { events = append(events, pr) }),
			WithSleeper(func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}),
		)
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.SearchResult) error {
				order = append(order, name)
				return nil
			}}
		}
		p.AddPhase(Phase{Name: "one", Delay: time.Second}, record("a"))
		p.AddPhase(Phase{Name: "two", Delay: 2 * time.Second}, record("b"), record("c"))

		if err := p.Execute(t.Context(), &model.SearchResult{Query: "q"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(events) != 2 {
			t.Fatalf("expected 2 progress events, got %d", len(events))
		}
		if events[0] != (Progress{Index: 1, Total: 2, Phase: Phase{Name: "one", Delay: time.Second}}) {
			t.Errorf("unexpected first event: %+v", events[0])
		}
		if events[1].Index != 2 || events[1].Phase.Name != "two" {
			t.Errorf("unexpected second event: %+v", events[1])
		}
		if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
			t.Errorf("unexpected delays: %v", slept)
		}
		if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
			t.Errorf("unexpected step order: %v", order)
		}
	})

	t.Run("stops on step error", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		after := &mockStep{name: "after"}

		p := New(WithSleeper(noSleep))
		p.AddPhase(Phase{Name: "one"}, &mockStep{name: "fail", doFunc: func(context.Context, *model.SearchResult) error {
			return errStep
		}})
		p.AddPhase(Phase{Name: "two"}, after)

		err := p.Execute(t.Context(), &model.SearchResult{})
		if !errors.Is(err, errStep) {
			t.Errorf("expected step error, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected later phase not to run")
		}
	})

	t.Run("respects cancellation before a phase", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithSleeper(noSleep))
		p.AddPhase(Phase{Name: "one"}, step)

		if err := p.Execute(ctx, &model.SearchResult{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
	})

	t.Run("respects cancellation during a delay", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		p := New(WithProgress(func(Progress) { cancel() }))
		p.AddPhase(Phase{Name: "slow", Delay: time.Hour})

		if err := p.Execute(ctx, &model.SearchResult{}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("zero delay returns immediately", func(t *testing.T) {
		t.Parallel()

		if err := Sleep(t.Context(), 0); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("short delay elapses", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		if err := Sleep(t.Context(), 10*time.Millisecond); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if time.Since(start) < 10*time.Millisecond {
			t.Error("returned before the delay elapsed")
		}
	})
}
