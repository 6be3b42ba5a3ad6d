package session

import (
	"context"
	"time"

	"scriptpad/internal/runner"
)

// Process is the view of a running script the coordinator needs.
// *runner.Handle implements it.
type Process interface {
	Poll() []runner.Chunk
	Cancel()
	Finished() bool
	ExitStatus() (int, bool)
	Stderr() string
	TimedOut() bool
	Canceled() bool
	Elapsed() time.Duration
}

// Launcher starts processes.
type Launcher interface {
	Launch(ctx context.Context, text string) (Process, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, text string) (Process, error)

func (f LauncherFunc) Launch(ctx context.Context, text string) (Process, error) {
	return f(ctx, text)
}

// FromRunner launches through r.
func FromRunner(r *runner.Runner) Launcher {
	return LauncherFunc(func(ctx context.Context, text string) (Process, error) {
		h, err := r.Start(ctx, text)
		if err != nil {
			return nil, err
		}
		return h, nil
	})
}
