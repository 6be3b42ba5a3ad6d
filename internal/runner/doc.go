// Package runner launches the script interpreter on a snapshot of the editor
// buffer and exposes the running child through a pollable Handle.
//
// A run writes the text into a fresh temporary directory, starts
// "<interpreter> <args...> <script>" in its own process group and copies both
// pipes into an internal queue. The UI goroutine drains that queue with
// Handle.Poll on every tick and never blocks on the child. Cancel kills the
// whole group, since kotlinc forks a JVM that outlives its parent.
package runner
