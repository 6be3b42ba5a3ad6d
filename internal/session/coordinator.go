package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scriptpad/internal/diag"
	"scriptpad/internal/diagparse"
	"scriptpad/internal/locate"
	"scriptpad/internal/progress"
	"scriptpad/internal/runner"
	"scriptpad/internal/source"
	"scriptpad/internal/trace"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("session coordinator closed")

// Options tune a Coordinator. The zero value is usable.
type Options struct {
	Parser     *diagparse.Parser // nil means diagparse.Default
	ScriptName string            // buffer name used for resolved diagnostics
	Dedup      bool              // drop identical diagnostics
	Now        func() time.Time  // clock, for tests
}

// Coordinator drives sessions. Run, Tick, Cancel and Close must be called
// from the same goroutine.
type Coordinator struct {
	ctx      context.Context
	launcher Launcher
	observer Observer
	opts     Options
	reporter *progress.Reporter

	lastID   ID
	current  *Session
	proc     Process
	span     *trace.Span
	progress progress.State
	closed   bool
}

// New returns a coordinator publishing to observer. ctx carries the tracer
// and, when cancelled, kills the running process.
func New(ctx context.Context, launcher Launcher, observer Observer, opts Options) *Coordinator {
	if opts.Parser == nil {
		opts.Parser = diagparse.Default
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if observer == nil {
		observer = ObserverFuncs{}
	}
	c := &Coordinator{
		ctx:      ctx,
		launcher: launcher,
		observer: observer,
		opts:     opts,
	}
	c.reporter = progress.NewReporter(progress.FuncSink(c.onProgress))
	return c
}

// Run cancels the session in flight, if any, and launches text as a new one.
// A launch failure is recorded on the returned session as Failed with a
// single diagnostic and also returned as the error.
func (c *Coordinator) Run(text string) (ID, error) {
	if c.closed {
		return 0, ErrClosed
	}
	c.abandon("superseded")

	c.lastID++
	id := c.lastID
	now := c.opts.Now()
	sess := &Session{
		ID:      id,
		Source:  source.NewBuffer(c.opts.ScriptName, text),
		State:   Pending,
		Started: now,
	}
	c.current = sess

	tracer := trace.FromContext(c.ctx)
	c.span = trace.Begin(tracer, trace.ScopeSession, "session.run", 0).With("id", id.String())

	proc, err := c.launcher.Launch(trace.WithSpan(c.ctx, c.span.ID()), text)
	sess.Timings.Set(PhaseLaunch, c.opts.Now().Sub(now))
	if err != nil {
		c.failLaunch(sess, err)
		return id, err
	}

	sess.State = Running
	c.proc = proc
	c.reporter.Attach(uint64(id), proc)
	return id, nil
}

// Tick moves new output and progress to the observer and finishes the
// session once its process is done. It never blocks.
func (c *Coordinator) Tick(now time.Time) {
	sess, proc := c.current, c.proc
	if sess == nil || proc == nil {
		return
	}
	trace.Point(trace.FromContext(c.ctx), trace.ScopeTick, "session.tick", sess.ID.String(), c.span.ID())

	// Finished is sampled before Poll: once it is true every chunk is queued.
	finished := proc.Finished()
	for _, chunk := range proc.Poll() {
		sess.Output = append(sess.Output, chunk)
		c.observer.OutputAppended(sess.ID, chunk.Stream, chunk.Text)
	}
	c.reporter.Tick()
	if finished {
		c.complete(sess, proc, now)
	}
}

// Cancel stops the current session on user request. The session ends as
// Cancelled and the observer is told the run finished unsuccessfully.
func (c *Coordinator) Cancel() {
	sess := c.current
	if sess == nil || sess.State.Terminal() {
		return
	}
	c.abandon("stopped")
	c.observer.ProgressChanged(sess.ID, progress.StateIdle)
	c.observer.RunFinished(sess.ID, false, Cancelled)
}

// Current returns a snapshot of the newest session, nil before the first run.
func (c *Coordinator) Current() *Session {
	if c.current == nil {
		return nil
	}
	return c.current.snapshot()
}

// Busy reports whether a session is pending or running.
func (c *Coordinator) Busy() bool {
	return c.current != nil && !c.current.State.Terminal()
}

// Close cancels the session in flight without publishing anything and makes
// further Run calls fail.
func (c *Coordinator) Close() {
	c.abandon("closed")
	c.closed = true
}

// abandon moves a live session to Cancelled and forgets its process, so that
// nothing it still produces is ever published.
func (c *Coordinator) abandon(reason string) {
	sess := c.current
	if sess == nil || sess.State.Terminal() {
		return
	}
	if c.proc != nil {
		c.proc.Cancel()
		if elapsed := c.proc.Elapsed(); elapsed > 0 {
			sess.Timings.Set(PhaseRun, elapsed)
		}
	}
	c.proc = nil
	c.reporter.Detach()
	c.progress = progress.StateIdle
	sess.State = Cancelled
	sess.Ended = c.opts.Now()

	trace.Point(trace.FromContext(c.ctx), trace.ScopeSession, "session.cancel", reason, c.span.ID())
	c.span.With("state", sess.State.String()).End(reason)
}

func (c *Coordinator) complete(sess *Session, proc Process, now time.Time) {
	code, _ := proc.ExitStatus()
	sess.Ended = now
	sess.ExitCode = code
	sess.Stderr = proc.Stderr()
	sess.TimedOut = proc.TimedOut()
	sess.Timings.Set(PhaseRun, proc.Elapsed())
	c.proc = nil
	c.reporter.Detach()
	c.setProgress(sess.ID, progress.StateIdle)

	if proc.Canceled() {
		// killed through ctx: neutral stop, exit status is the kill signal
		sess.State = Cancelled
		c.span.With("state", sess.State.String()).End("context canceled")
		c.observer.RunFinished(sess.ID, false, Cancelled)
		return
	}
	if code == 0 {
		sess.State = Succeeded
		c.span.With("state", sess.State.String()).End("")
		c.observer.RunFinished(sess.ID, true, Succeeded)
		return
	}

	parseSpan := trace.Begin(trace.FromContext(c.ctx), trace.ScopeProcess, "parse", c.span.ID())
	records := c.parse(sess, parseSpan)
	sess.Diagnostics = locate.ResolveAll(records, sess.Source)
	sess.Timings.Set(PhaseParse, parseSpan.With("records", len(records)).End(""))

	sess.State = Failed
	c.span.
		With("state", sess.State.String()).
		With("exit", code).
		End("")
	c.observer.RunFinished(sess.ID, false, Failed)
	c.observer.Diagnostics(sess.ID, sess.Diagnostics)
}

func (c *Coordinator) parse(sess *Session, span *trace.Span) []diag.Record {
	bag := diag.NewBag(0)
	var rep diag.Reporter = diag.BagReporter{Bag: bag}
	if c.opts.Dedup {
		rep = diag.NewDedupReporter(rep)
	}
	if n, _ := c.opts.Parser.ParseInto(sess.Stderr, rep); n > 0 {
		span.With("errors", bag.Count(diag.SevError)).With("warnings", bag.Count(diag.SevWarning))
		return bag.Items()
	}
	if sess.TimedOut {
		return []diag.Record{{
			Severity: diag.SevError,
			Message:  fmt.Sprintf("script killed after exceeding its maximum runtime (exit status %d)", sess.ExitCode),
		}}
	}
	return []diag.Record{diagparse.Unstructured(sess.Stderr, sess.ExitCode)}
}

func (c *Coordinator) failLaunch(sess *Session, err error) {
	sess.State = Failed
	sess.Ended = c.opts.Now()
	sess.Err = err
	sess.ExitCode = 1
	var le *runner.LaunchError
	if errors.As(err, &le) {
		sess.ExitCode = le.ExitCode()
	}
	rec := diag.Record{Severity: diag.SevError, Message: err.Error()}
	sess.Diagnostics = locate.ResolveAll([]diag.Record{rec}, sess.Source)

	c.span.With("state", sess.State.String()).End("launch failed")
	c.observer.RunFinished(sess.ID, false, Failed)
	c.observer.Diagnostics(sess.ID, sess.Diagnostics)
}

func (c *Coordinator) onProgress(evt progress.Event) {
	id := ID(evt.Session)
	if c.current == nil || c.current.ID != id {
		trace.Point(trace.FromContext(c.ctx), trace.ScopeSession, "session.stale", id.String(), c.span.ID())
		return
	}
	c.setProgress(id, c.reporter.State())
}

func (c *Coordinator) setProgress(id ID, state progress.State) {
	if state == c.progress {
		return
	}
	c.progress = state
	c.observer.ProgressChanged(id, state)
}
