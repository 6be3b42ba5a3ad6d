package main

import (
	"fmt"
	"io"

	"scriptpad/internal/diag"
	"scriptpad/internal/diagfmt"
	"scriptpad/internal/observ"
	"scriptpad/internal/session"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

func readFormat(value string) (outputFormat, error) {
	v, err := choice("format", value, string(formatPretty), string(formatJSON), string(formatShort))
	return outputFormat(v), err
}

// reportSession prints what a finished session produced. Stdout is not
// repeated for pretty and short output, the caller has streamed it already.
func reportSession(out, errOut io.Writer, sess *session.Session, format outputFormat, useColor bool) error {
	switch format {
	case formatJSON:
		return diagfmt.Result(out, sess, diagfmt.JSONOpts{IncludeSource: true})

	case formatShort:
		if len(sess.Diagnostics) == 0 {
			return nil
		}
		records := make([]diag.Record, len(sess.Diagnostics))
		for i, d := range sess.Diagnostics {
			records[i] = d.Record
		}
		_, err := fmt.Fprintln(errOut, diag.FormatShort(records))
		return err
	}

	switch sess.State {
	case session.Cancelled:
		_, err := fmt.Fprintln(errOut, "stopped")
		return err
	case session.Succeeded:
		return nil
	}
	opts := diagfmt.PrettyOpts{Color: useColor, Context: 1}
	if err := diagfmt.Pretty(errOut, sess.Diagnostics, sess.Source, opts); err != nil {
		return err
	}
	status := fmt.Sprintf("exit code %d", sess.ExitCode)
	if sess.TimedOut {
		status += ", timed out"
	}
	_, err := fmt.Fprintf(errOut, "\n%s (%s)\n", diagfmt.Summary(sess.Diagnostics), status)
	return err
}

// sessionExit maps a session to the process exit status.
func sessionExit(sess *session.Session) error {
	switch {
	case sess == nil:
		return fmt.Errorf("no session was started")
	case sess.State == session.Succeeded:
		return nil
	case sess.State == session.Cancelled:
		return &exitError{code: 130}
	case sess.ExitCode == 0:
		return &exitError{code: 1}
	default:
		return &exitError{code: sess.ExitCode}
	}
}

// timingsReport lists the recorded phases of sess in execution order.
func timingsReport(sess *session.Session) observ.Report {
	var r observ.Report
	for _, phase := range []session.Phase{session.PhaseLaunch, session.PhaseRun, session.PhaseParse} {
		if !sess.Timings.Has(phase) {
			continue
		}
		note := ""
		if phase == session.PhaseParse {
			note = fmt.Sprintf("%d diagnostics", len(sess.Diagnostics))
		}
		r.Add(string(phase), sess.Timings.Duration(phase), note)
	}
	return r
}
