package session

import (
	"strings"
	"time"

	"scriptpad/internal/locate"
	"scriptpad/internal/runner"
	"scriptpad/internal/source"
)

// Session is one run of the buffer.
type Session struct {
	ID      ID
	Source  *source.Buffer
	State   State
	Started time.Time
	Ended   time.Time // zero while live

	Output      []runner.Chunk // stdout and stderr in arrival order
	Stderr      string         // full stderr, set once finished
	ExitCode    int
	TimedOut    bool
	Err         error // launch failure
	Diagnostics []locate.Resolved
	Timings     Timings
}

// Stdout returns the stdout part of the transcript.
func (s *Session) Stdout() string {
	var sb strings.Builder
	for _, c := range s.Output {
		if c.Stream == runner.Stdout {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// Success reports whether the session ended with exit code 0.
func (s *Session) Success() bool { return s.State == Succeeded }

func (s *Session) snapshot() *Session {
	cp := *s
	cp.Output = append([]runner.Chunk(nil), s.Output...)
	cp.Diagnostics = append([]locate.Resolved(nil), s.Diagnostics...)
	cp.Timings = s.Timings.clone()
	return &cp
}
