package diagfmt

import (
	"io"

	"scriptpad/internal/session"
)

// ResultJSON is the machine-readable summary of a finished session.
type ResultJSON struct {
	Session     uint64            `json:"session"`
	State       string            `json:"state"`
	Success     bool              `json:"success"`
	ExitCode    int               `json:"exit_code"`
	TimedOut    bool              `json:"timed_out,omitempty"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	Stdout      string            `json:"stdout"`
	Stderr      string            `json:"stderr,omitempty"`
	Diagnostics DiagnosticsOutput `json:"diagnostics"`
}

// BuildResult summarises sess. Stderr is included only for failed runs.
func BuildResult(sess *session.Session, opts JSONOpts) ResultJSON {
	res := ResultJSON{
		Session:     uint64(sess.ID),
		State:       sess.State.String(),
		Success:     sess.Success(),
		ExitCode:    sess.ExitCode,
		TimedOut:    sess.TimedOut,
		ElapsedMs:   sess.Timings.Duration(session.PhaseRun).Milliseconds(),
		Stdout:      sess.Stdout(),
		Diagnostics: BuildDiagnosticsOutput(sess.Diagnostics, sess.Source, opts),
	}
	if sess.State == session.Failed {
		res.Stderr = sess.Stderr
	}
	return res
}

// Result writes the JSON summary of sess.
func Result(w io.Writer, sess *session.Session, opts JSONOpts) error {
	return writeJSON(w, BuildResult(sess, opts))
}
