package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"time"

	"scriptpad/internal/trace"
)

// waitDelay bounds how long Wait keeps reading pipes that a stray
// grandchild still holds open after the interpreter itself exited.
const waitDelay = 2 * time.Second

// Runner starts script processes. It is safe to share between sessions.
type Runner struct {
	cfg Config
}

// New returns a runner using cfg. Empty fields fall back to DefaultConfig.
func New(cfg Config) *Runner {
	def := DefaultConfig()
	if cfg.Interpreter == "" {
		cfg.Interpreter = def.Interpreter
		if cfg.Args == nil {
			cfg.Args = def.Args
		}
	}
	if cfg.ScriptBase == "" {
		cfg.ScriptBase = def.ScriptBase
	}
	if cfg.ScriptExt == "" {
		cfg.ScriptExt = def.ScriptExt
	}
	return &Runner{cfg: cfg}
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// Start writes text to a temporary script and launches the interpreter on it.
// It returns as soon as the process is running. When ctx is cancelled the
// process group is killed as if Handle.Cancel had been called.
func (r *Runner) Start(ctx context.Context, text string) (*Handle, error) {
	cfg := r.cfg
	tracer := trace.FromContext(ctx)

	interp, err := exec.LookPath(cfg.Interpreter)
	if err != nil {
		trace.Point(tracer, trace.ScopeProcess, "process.launch_failed", err.Error(), trace.CurrentSpan(ctx))
		return nil, &LaunchError{Interpreter: cfg.Interpreter, Err: fmt.Errorf("%w: %w", ErrInterpreterNotFound, err)}
	}

	tmpDir, err := os.MkdirTemp("", "scriptpad-*")
	if err != nil {
		return nil, &LaunchError{Interpreter: cfg.Interpreter, Err: fmt.Errorf("create temp dir: %w", err)}
	}
	scriptPath := filepath.Join(tmpDir, cfg.ScriptName())
	if err := os.WriteFile(scriptPath, []byte(text), 0o600); err != nil {
		removeDir(tmpDir)
		return nil, &LaunchError{Interpreter: cfg.Interpreter, Err: fmt.Errorf("write script: %w", err)}
	}

	args := make([]string, 0, len(cfg.Args)+1)
	args = append(args, cfg.Args...)
	args = append(args, scriptPath)

	queue := &chunkQueue{maxOutput: cfg.MaxOutput}
	stdout := &streamWriter{queue: queue, stream: Stdout}
	stderr := &streamWriter{queue: queue, stream: Stderr}

	// exec.CommandContext would only kill the direct child; the group kill
	// is done by the supervisor instead.
	cmd := exec.Command(interp, args...)
	cmd.Dir = cfg.Dir
	if cmd.Dir == "" {
		cmd.Dir = tmpDir
	}
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	span := trace.Begin(tracer, trace.ScopeProcess, "process", trace.CurrentSpan(ctx))
	if err := cmd.Start(); err != nil {
		span.With("error", err.Error()).End("launch failed")
		removeDir(tmpDir)
		return nil, &LaunchError{Interpreter: cfg.Interpreter, Err: err}
	}

	h := &Handle{
		cmd:        cmd,
		queue:      queue,
		stdout:     stdout,
		stderr:     stderr,
		tmpDir:     tmpDir,
		scriptPath: scriptPath,
		started:    time.Now(),
		done:       make(chan struct{}),
		exitCode:   -1,
		span:       span,
	}
	span.With("pid", cmd.Process.Pid)
	live.Add(1)

	go h.supervise(ctx, cfg.MaxRuntime)
	return h, nil
}

// live counts processes started and not yet reaped.
var live atomic.Int64

// Live reports how many script processes are currently running.
func Live() int64 { return live.Load() }

func removeDir(dir string) {
	// Best-effort: the OS temp reaper handles anything left behind
	_ = os.RemoveAll(dir) //nolint:errcheck
}
