package runner

import (
	"errors"
	"fmt"
)

// Exit codes reported for launch failures, following shell conventions.
const (
	ExitNotFound   = 127
	ExitCannotExec = 126
)

// ErrInterpreterNotFound is wrapped by LaunchError when the interpreter is not in PATH.
var ErrInterpreterNotFound = errors.New("interpreter not found")

// LaunchError reports that no process could be started for a run.
type LaunchError struct {
	Interpreter string
	Err         error
}

func (e *LaunchError) Error() string {
	if errors.Is(e.Err, ErrInterpreterNotFound) {
		return fmt.Sprintf("%s not found. Please make sure it is in your PATH.", e.Interpreter)
	}
	return fmt.Sprintf("failed to start %s: %v", e.Interpreter, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitCode is the status a shell would have reported for the same failure.
func (e *LaunchError) ExitCode() int {
	if errors.Is(e.Err, ErrInterpreterNotFound) {
		return ExitNotFound
	}
	return ExitCannotExec
}
