package trace

import (
	"fmt"
	"sync"
	"time"
)

// Probe reports state sampled at every heartbeat. It runs on the heartbeat
// goroutine and must be safe for concurrent use.
type Probe func() []Attr

// Heartbeat emits periodic liveness events. Heartbeats that keep arriving
// with no session events in between mean the UI loop is alive but stuck; a
// probe reporting live processes after a stop means a kill did not land.
type Heartbeat struct {
	tracer Tracer
	probe  Probe
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat starts emitting every interval. It returns nil when tracing
// is disabled or interval is not positive; a nil Heartbeat is safe to Stop.
func StartHeartbeat(tracer Tracer, interval time.Duration, probe Probe) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		probe:  probe,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.loop(interval)
	return h
}

func (h *Heartbeat) loop(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ticker.C:
			h.beat(n)
		case <-h.stop:
			return
		}
	}
}

func (h *Heartbeat) beat(n int) {
	ev := &Event{
		Kind:   KindHeartbeat,
		Scope:  ScopeApp,
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", n),
	}
	if h.probe != nil {
		ev.Attrs = h.probe()
	}
	h.tracer.Emit(ev)
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		close(h.stop)
		<-h.done
	})
}
