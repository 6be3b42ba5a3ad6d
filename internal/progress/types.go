package progress

import "time"

// Status is the kind of lifecycle event.
type Status string

const (
	// StatusStarted is emitted once, when a handle is attached.
	StatusStarted Status = "started"
	// StatusRunning is emitted on every tick while the process is alive.
	StatusRunning Status = "running"
	// StatusFinished is emitted once, with the exit code.
	StatusFinished Status = "finished"
)

// State is the simplified view the UI renders.
type State uint8

const (
	StateIdle State = iota
	StateStarted
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Busy reports whether a run is in flight.
func (s State) Busy() bool { return s != StateIdle }

// Event reports one lifecycle step of a session's process.
type Event struct {
	Session  uint64
	Status   Status
	Elapsed  time.Duration
	ExitCode int // meaningful only for StatusFinished
}

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// Source is the part of a runner handle the reporter polls.
type Source interface {
	Finished() bool
	ExitStatus() (int, bool)
	Elapsed() time.Duration
}
