package session

import (
	"scriptpad/internal/locate"
	"scriptpad/internal/progress"
	"scriptpad/internal/runner"
)

// Observer receives UI-facing events. Calls happen on the goroutine driving
// the coordinator and only ever for the newest session.
type Observer interface {
	OutputAppended(id ID, stream runner.Stream, text string)
	ProgressChanged(id ID, state progress.State)
	RunFinished(id ID, success bool, state State)
	Diagnostics(id ID, diags []locate.Resolved)
}

// ObserverFuncs adapts optional callbacks to Observer.
type ObserverFuncs struct {
	OnOutput      func(id ID, stream runner.Stream, text string)
	OnProgress    func(id ID, state progress.State)
	OnFinished    func(id ID, success bool, state State)
	OnDiagnostics func(id ID, diags []locate.Resolved)
}

func (o ObserverFuncs) OutputAppended(id ID, stream runner.Stream, text string) {
	if o.OnOutput != nil {
		o.OnOutput(id, stream, text)
	}
}

func (o ObserverFuncs) ProgressChanged(id ID, state progress.State) {
	if o.OnProgress != nil {
		o.OnProgress(id, state)
	}
}

func (o ObserverFuncs) RunFinished(id ID, success bool, state State) {
	if o.OnFinished != nil {
		o.OnFinished(id, success, state)
	}
}

func (o ObserverFuncs) Diagnostics(id ID, diags []locate.Resolved) {
	if o.OnDiagnostics != nil {
		o.OnDiagnostics(id, diags)
	}
}
