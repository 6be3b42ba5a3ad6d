package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// stamp assigns the next sequence number and a timestamp if ev lacks them.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seqCounter.Add(1)
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
}

// Span tracks one operation from Begin to End. A nil or disabled span is
// safe to use and does nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin emits the begin event of a new span under parent (0 for a root).
// Scope filtering is left to the tracer.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{tracer: Nop, started: time.Now()}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// With adds an attribute reported by End.
func (s *Span) With(key string, value any) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	s.attrs = append(s.attrs, KV(key, value))
	return s
}

// End emits the end event and returns the span's duration. Disabled spans
// still measure time so callers can use End for phase timings.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.started.IsZero() {
		return 0
	}
	dur := time.Since(s.started)
	if s.id == 0 {
		return dur
	}
	s.tracer.Emit(&Event{
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Dur:      dur,
		Attrs:    s.attrs,
	})
	return dur
}

// ID returns the span ID, 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Tracer returns the tracer the span reports to.
func (s *Span) Tracer() Tracer {
	if s == nil || s.tracer == nil {
		return Nop
	}
	return s.tracer
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64, attrs ...Attr) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
		Attrs:    attrs,
	})
}
