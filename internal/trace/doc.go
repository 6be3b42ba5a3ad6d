// Package trace is scriptpad's structured event log.
//
// Every interesting step of a run (session start, process launch, stderr
// parsing, cancellation, stale results being dropped) is emitted as an Event
// through a Tracer carried on context.Context. When tracing is off the Nop
// tracer makes this free.
//
//	scriptpad run --trace=- --trace-level=detail script.kts
//	scriptpad edit --trace=trace.ndjson --trace-level=debug --trace-mode=both
//
// Level selects which scopes reach the stream:
//
//   - LevelPhase: ScopeApp and ScopeSession
//   - LevelDetail: adds ScopeProcess (launch, exit, kill, parse)
//   - LevelDebug: adds ScopeTick (every poll of the UI loop)
//
// The ring tracer keeps everything except ticks regardless of level, so a
// panic dump always shows the last sessions.
//
//	span, ctx := trace.Start(ctx, trace.ScopeProcess, "process")
//	defer span.With("pid", pid).End("")
package trace
