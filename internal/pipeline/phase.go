package pipeline

import (
	"context"
	"time"
)

// DefaultPhaseDelay is the wait interval of each default phase.
const DefaultPhaseDelay = 800 * time.Millisecond

// Phase is a named stage of a search with a fixed wait interval.
type Phase struct {
	// Name is the human-readable status text shown while the phase runs.
	Name string `json:"name" yaml:"name"`

	// Delay is how long the phase waits before its steps run.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// DefaultPhases returns the standard search phases.
func DefaultPhases() []Phase {
	return PhasesWithDelay(DefaultPhaseDelay)
}

// PhasesWithDelay returns the standard search phases with a custom delay.
func PhasesWithDelay(delay time.Duration) []Phase {
	names := []string{
		"Connecting to TOR network...",
		"Querying dark web sources...",
		"Analyzing results with LLM...",
		"Extracting IOCs...",
		"Generating threat intelligence...",
	}
	phases := make([]Phase, len(names))
	for i, name := range names {
		phases[i] = Phase{Name: name, Delay: delay}
	}
	return phases
}

// TotalDelay returns the sum of all phase delays.
func TotalDelay(phases []Phase) time.Duration {
	var total time.Duration
	for _, p := range phases {
		total += p.Delay
	}
	return total
}

// Progress is emitted when a phase starts.
type Progress struct {
	// Index is the 1-based position of the phase.
	Index int `json:"index"`

	// Total is the number of phases in the pipeline.
	Total int `json:"total"`

	// Phase is the phase that started.
	Phase Phase `json:"phase"`
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
