// Package session coordinates one script run from launch to resolved
// diagnostics.
//
// A Coordinator owns at most one live Session. Run cancels whatever is in
// flight, launches a new process and hands it to a progress.Reporter. Tick,
// called from the UI loop, moves output and progress to the Observer and
// finalises the session once the process is reaped. Every published event
// carries the session ID and events for anything but the newest session are
// dropped, so the coordinator needs no locks as long as Run, Tick and Cancel
// are called from one goroutine.
package session
