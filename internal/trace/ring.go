package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory. It records every scope but
// ticks regardless of level, so a dump after a crash has context.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	start  int // oldest event
	count  int
	level  Level
}

// NewRingTracer creates a ring holding capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Scope == ScopeTick && !t.level.ShouldEmit(ScopeTick) {
		return
	}
	stamp(ev)
	stored := *ev
	stored.Attrs = append([]Attr(nil), ev.Attrs...)

	t.mu.Lock()
	defer t.mu.Unlock()
	capacity := len(t.events)
	if t.count < capacity {
		t.events[(t.start+t.count)%capacity] = stored
		t.count++
		return
	}
	t.events[t.start] = stored
	t.start = (t.start + 1) % capacity
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, t.count)
	for i := range out {
		out[i] = t.events[(t.start+i)%len(t.events)]
	}
	return out
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
