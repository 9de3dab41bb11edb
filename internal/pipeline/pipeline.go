package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/darkcti/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the result
// accumulated by previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the result to fill.
	Do(ctx context.Context, result *model.SearchResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// stage is a phase and the steps that run once its delay has elapsed.
type stage struct {
	phase Phase
	steps []Step
}

// Pipeline orchestrates the phases of a single search.
type Pipeline struct {
	// stages contains the ordered list of phases to execute.
	stages []stage

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// progress receives an event whenever a phase starts. Optional.
	progress func(Progress)

	// sleep waits for a phase delay.
	sleep Sleeper
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress registers a callback invoked when each phase starts.
// The callback runs on the goroutine executing the pipeline.
func WithProgress(fn func(Progress)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithSleeper replaces the delay implementation. Tests use it to skip waiting.
func WithSleeper(sleep Sleeper) Option {
	return func(p *Pipeline) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// New creates a new Pipeline with the given options.
// Phases should be added using AddPhase after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: make([]stage, 0),
		sleep:  Sleep,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddPhase appends a phase. The given steps run, in order, after the
// phase delay has elapsed.
func (p *Pipeline) AddPhase(phase Phase, steps ...Step) {
	p.stages = append(p.stages, stage{phase: phase, steps: steps})
}

// AddPhases appends several phases that have no steps of their own.
func (p *Pipeline) AddPhases(phases ...Phase) {
	for _, phase := range phases {
		p.AddPhase(phase)
	}
}

// AddStep attaches a step to the last phase.
// If no phase exists yet, an unnamed phase without delay is created.
func (p *Pipeline) AddStep(step Step) {
	if len(p.stages) == 0 {
		p.AddPhase(Phase{})
	}
	last := &p.stages[len(p.stages)-1]
	last.steps = append(last.steps, step)
}

// Execute runs every phase in order and fills result.
// It stops at the first failing step or when ctx is cancelled.
func (p *Pipeline) Execute(ctx context.Context, result *model.SearchResult) error {
	total := len(p.stages)
	for i, st := range p.stages {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"phase", st.phase.Name,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("starting phase",
			"phase", st.phase.Name,
			"index", i+1,
			"total", total,
			"query", result.Query,
		)
		if p.progress != nil {
			p.progress(Progress{Index: i + 1, Total: total, Phase: st.phase})
		}

		if err := p.sleep(ctx, st.phase.Delay); err != nil {
			p.logger.Warn("pipeline cancelled",
				"phase", st.phase.Name,
				"reason", err,
			)
			return err
		}

		for _, step := range st.steps {
			if err := step.Do(ctx, result); err != nil {
				p.logger.Error("step failed",
					"step", step.Name(),
					"query", result.Query,
					"error", err,
				)
				return err
			}
			p.logger.Debug("step completed",
				"step", step.Name(),
				"query", result.Query,
			)
		}
	}

	return nil
}

// PhaseCount returns the number of phases in the pipeline.
func (p *Pipeline) PhaseCount() int {
	return len(p.stages)
}

// StepCount returns the number of steps across all phases.
func (p *Pipeline) StepCount() int {
	n := 0
	for _, st := range p.stages {
		n += len(st.steps)
	}
	return n
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, p.StepCount())
	for _, st := range p.stages {
		for _, step := range st.steps {
			names = append(names, step.Name())
		}
	}
	return names
}

// Phases returns the phases in execution order.
func (p *Pipeline) Phases() []Phase {
	phases := make([]Phase, len(p.stages))
	for i, st := range p.stages {
		phases[i] = st.phase
	}
	return phases
}
