package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scriptpad/internal/runner"
	"scriptpad/internal/trace"
)

// traceFlags are the persistent --trace* flags.
type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	fs := cmd.Root().PersistentFlags()
	var f traceFlags
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	f.output, err = fs.GetString("trace")
	keep(err)
	f.level, err = fs.GetString("trace-level")
	keep(err)
	f.mode, err = fs.GetString("trace-mode")
	keep(err)
	f.ringSize, err = fs.GetInt("trace-ring-size")
	keep(err)
	f.heartbeat, err = fs.GetDuration("trace-heartbeat")
	keep(err)
	if err := errors.Join(errs...); err != nil {
		return traceFlags{}, fmt.Errorf("failed to read trace flags: %w", err)
	}
	return f, nil
}

// config turns the flags into a tracer configuration. Naming an output
// without a level means phase; a stream without an output goes to stderr.
func (f traceFlags) config() (trace.Config, error) {
	level, err := trace.ParseLevel(f.level)
	if err != nil {
		return trace.Config{}, err
	}
	if level == trace.LevelOff && f.output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(f.mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: f.output,
		RingSize:   f.ringSize,
	}, nil
}

// setupTracing installs the tracer selected by the flags on the command's
// context and returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := flags.config()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(ctx, tracer))
	if !tracer.Enabled() {
		return func() {}, nil
	}
	activeTracer = tracer
	heartbeat := trace.StartHeartbeat(tracer, flags.heartbeat, liveProcesses)

	return func() {
		heartbeat.Stop()
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
		activeTracer = nil
	}, nil
}

func liveProcesses() []trace.Attr {
	return []trace.Attr{trace.KV("live_processes", runner.Live())}
}

// activeTracer is the tracer installed by setupTracing, read on panic.
var activeTracer trace.Tracer

// dumpTraceOnPanic writes the ring buffer to stderr and re-panics. Defer it
// first in a command.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.RingOf(activeTracer); ring != nil {
		fmt.Fprintln(os.Stderr, "--- trace (most recent events) ---")
		if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
			fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
		}
	}
	panic(r)
}
