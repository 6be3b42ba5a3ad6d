// Package progress turns polls of a running process into lifecycle events.
package progress

// Reporter follows at most one handle at a time. It is driven from the UI
// tick and is not safe for concurrent use.
type Reporter struct {
	sink    Sink
	session uint64
	src     Source
	state   State
}

// NewReporter returns an idle reporter writing to sink.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Attach starts following src for the given session and emits Started.
// A previously attached handle is dropped silently.
func (r *Reporter) Attach(session uint64, src Source) {
	r.session = session
	r.src = src
	r.state = StateStarted
	r.emit(Event{Session: session, Status: StatusStarted, Elapsed: src.Elapsed()})
}

// Tick polls the attached handle. It emits Running while the process is
// alive and Finished once, after which the reporter is idle again.
func (r *Reporter) Tick() {
	if r.src == nil {
		return
	}
	if code, ok := r.src.ExitStatus(); ok && r.src.Finished() {
		evt := Event{Session: r.session, Status: StatusFinished, Elapsed: r.src.Elapsed(), ExitCode: code}
		r.Detach()
		r.emit(evt)
		return
	}
	r.state = StateRunning
	r.emit(Event{Session: r.session, Status: StatusRunning, Elapsed: r.src.Elapsed()})
}

// Detach stops following the current handle without emitting anything.
func (r *Reporter) Detach() {
	r.src = nil
	r.session = 0
	r.state = StateIdle
}

// State returns the simplified state.
func (r *Reporter) State() State { return r.state }

func (r *Reporter) emit(evt Event) {
	if r.sink != nil {
		r.sink.OnEvent(evt)
	}
}
