package session

import (
	"fmt"
	"time"
)

// ID identifies a session. IDs grow monotonically within a coordinator.
type ID uint64

func (id ID) String() string { return fmt.Sprintf("#%d", uint64(id)) }

// State of a session.
type State uint8

const (
	Pending State = iota
	Running
	Succeeded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Cancelled
}

// Phase names a timed part of a session.
type Phase string

const (
	PhaseLaunch Phase = "launch"
	PhaseRun    Phase = "run"
	PhaseParse  Phase = "parse"
)

// Timings holds phase durations.
type Timings struct {
	phases map[Phase]time.Duration
}

func (t *Timings) ensure() {
	if t.phases == nil {
		t.phases = make(map[Phase]time.Duration)
	}
}

// Set stores a duration for the given phase.
func (t *Timings) Set(phase Phase, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.phases[phase] = dur
}

// Has reports whether a duration for phase is recorded.
func (t Timings) Has(phase Phase) bool {
	if t.phases == nil {
		return false
	}
	_, ok := t.phases[phase]
	return ok
}

// Duration returns the recorded duration for phase.
func (t Timings) Duration(phase Phase) time.Duration {
	if t.phases == nil {
		return 0
	}
	return t.phases[phase]
}

// Sum returns the sum of durations across the provided phases.
func (t Timings) Sum(phases ...Phase) time.Duration {
	var total time.Duration
	for _, phase := range phases {
		total += t.Duration(phase)
	}
	return total
}

func (t Timings) clone() Timings {
	if t.phases == nil {
		return Timings{}
	}
	out := Timings{phases: make(map[Phase]time.Duration, len(t.phases))}
	for k, v := range t.phases {
		out.phases[k] = v
	}
	return out
}
