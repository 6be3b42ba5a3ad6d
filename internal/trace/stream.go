package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// StreamTracer writes events as they arrive. Heartbeats are written at any
// level above off.
type StreamTracer struct {
	mu        sync.Mutex
	buf       *bufio.Writer
	closer    io.Closer // nil for writers the tracer does not own
	level     Level
	format    Format
	autoFlush bool
}

// NewStreamTracer writes to w, flushing after every event. w is not closed.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		buf:       bufio.NewWriter(w),
		level:     level,
		format:    format,
		autoFlush: true,
	}
}

// newStreamFor opens the destination of cfg. Files are buffered and closed
// with the tracer; stderr is flushed per event so it interleaves with the
// program's own output.
func newStreamFor(cfg Config) (*StreamTracer, error) {
	format := resolveFormat(cfg)
	if cfg.Output != nil {
		return NewStreamTracer(cfg.Output, cfg.Level, format), nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return NewStreamTracer(os.Stderr, cfg.Level, format), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return &StreamTracer{
		buf:    bufio.NewWriterSize(f, 64<<10),
		closer: f,
		level:  cfg.Level,
		format: format,
	}, nil
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stamp(ev)
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// a broken trace sink must not disturb the editor
	_, _ = t.buf.Write(data) //nolint:errcheck
	if t.autoFlush {
		_ = t.buf.Flush() //nolint:errcheck
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close flushes and closes files opened by the tracer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
		t.closer = nil
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
