package runner

import (
	"context"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"scriptpad/internal/trace"
)

// Handle is a running (or finished) script process.
type Handle struct {
	cmd        *exec.Cmd
	queue      *chunkQueue
	stdout     *streamWriter
	stderr     *streamWriter
	tmpDir     string
	scriptPath string
	started    time.Time
	done       chan struct{}
	span       *trace.Span

	cancelOnce  sync.Once
	cleanupOnce sync.Once

	mu       sync.Mutex
	exited   bool
	finished bool
	canceled bool
	timedOut bool
	exitCode int
	ended    time.Time
	errText  string
}

// Poll returns the chunks produced since the previous call. It never blocks.
func (h *Handle) Poll() []Chunk {
	return h.queue.drain()
}

// Cancel kills the process group and removes the temporary script. It may be
// called any number of times and from any goroutine; it does not wait for
// the process to be reaped.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		h.mu.Lock()
		alive := !h.exited
		h.canceled = alive
		h.mu.Unlock()

		if alive {
			killGroup(h.cmd.Process)
		}
		h.cleanup()
	})
}

// Finished reports whether the process was reaped and both pipes drained.
func (h *Handle) Finished() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.finished
}

// ExitStatus returns the exit code once the handle is finished. A process
// killed by a signal reports 128+signal.
func (h *Handle) ExitStatus() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.finished {
		return 0, false
	}
	return h.exitCode, true
}

// Stderr returns the complete standard error text once finished, "" before.
func (h *Handle) Stderr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errText
}

// Canceled reports whether Cancel reached the process while it was alive.
func (h *Handle) Canceled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.canceled
}

// TimedOut reports whether the max-runtime watchdog killed the process.
func (h *Handle) TimedOut() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timedOut
}

// Elapsed is the wall time since launch, frozen once finished.
func (h *Handle) Elapsed() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return h.ended.Sub(h.started)
	}
	return time.Since(h.started)
}

// Done is closed when the handle becomes finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ScriptPath is the temporary script location. The file is gone once the
// handle is finished or cancelled.
func (h *Handle) ScriptPath() string { return h.scriptPath }

func (h *Handle) supervise(ctx context.Context, maxRuntime time.Duration) {
	exited := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		defer close(exited)
		h.wait()
		return nil
	})
	g.Go(func() error {
		h.watch(ctx, exited, maxRuntime)
		return nil
	})
	// neither goroutine returns an error
	_ = g.Wait() //nolint:errcheck

	h.finish()
}

func (h *Handle) wait() {
	// Wait returns only after both copiers stopped, or after waitDelay
	// when a grandchild keeps the pipes open.
	_ = h.cmd.Wait() //nolint:errcheck
	h.stdout.flush()
	h.stderr.flush()

	code := exitCodeOf(h.cmd.ProcessState)
	h.mu.Lock()
	h.exited = true
	h.exitCode = code
	h.mu.Unlock()
}

func (h *Handle) watch(ctx context.Context, exited <-chan struct{}, maxRuntime time.Duration) {
	var timeout <-chan time.Time
	if maxRuntime > 0 {
		timer := time.NewTimer(maxRuntime)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-exited:
	case <-ctx.Done():
		h.Cancel()
	case <-timeout:
		h.mu.Lock()
		alive := !h.exited
		h.timedOut = alive
		h.mu.Unlock()
		if alive {
			trace.Point(h.span.Tracer(), trace.ScopeProcess, "process.timeout", maxRuntime.String(), h.span.ID(),
				trace.KV("pid", h.cmd.Process.Pid))
			killGroup(h.cmd.Process)
		}
	}
}

func (h *Handle) finish() {
	h.cleanup()

	errText := h.queue.stderrText()
	h.mu.Lock()
	h.finished = true
	h.ended = time.Now()
	h.errText = errText
	code, canceled, timedOut := h.exitCode, h.canceled, h.timedOut
	h.mu.Unlock()

	live.Add(-1)
	h.span.
		With("exit", code).
		With("canceled", canceled).
		With("timed_out", timedOut).
		End("")
	close(h.done)
}

func (h *Handle) cleanup() {
	h.cleanupOnce.Do(func() {
		removeDir(h.tmpDir)
	})
}

func exitCodeOf(ps *os.ProcessState) int {
	if ps == nil {
		return -1
	}
	if code := ps.ExitCode(); code >= 0 {
		return code
	}
	return signaledExitCode(ps)
}
