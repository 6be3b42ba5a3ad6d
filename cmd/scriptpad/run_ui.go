package main

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scriptpad/internal/config"
	"scriptpad/internal/progress"
	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/ui"
)

// runWithUI runs text while a progress view shows the spinner, the elapsed
// time and the tail of the output. The session is driven on its own
// goroutine; the view only consumes updates.
func runWithUI(ctx context.Context, cfg config.Config, text string) (*session.Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan ui.RunUpdate, 256)
	outcomeCh := make(chan *session.Session, 1)

	go func() {
		var id uint64
		obs := session.ObserverFuncs{
			OnOutput: func(_ session.ID, stream runner.Stream, text string) {
				updates <- ui.RunUpdate{Text: text, Stderr: stream == runner.Stderr}
			},
			OnProgress: func(sid session.ID, state progress.State) {
				id = uint64(sid)
				if state == progress.StateStarted {
					updates <- ui.RunUpdate{Progress: &progress.Event{Session: id, Status: progress.StatusStarted}}
				}
			},
		}
		onTick := func(elapsed time.Duration) {
			updates <- ui.RunUpdate{Progress: &progress.Event{Session: id, Status: progress.StatusRunning, Elapsed: elapsed}}
		}
		sess := runHeadless(ctx, cfg, text, obs, onTick)
		if sess != nil {
			updates <- ui.RunUpdate{Progress: &progress.Event{
				Session:  id,
				Status:   progress.StatusFinished,
				Elapsed:  sess.Timings.Duration(session.PhaseRun),
				ExitCode: sess.ExitCode,
			}}
		}
		outcomeCh <- sess
		close(updates)
	}()

	model := ui.NewProgressModel(cfg.ScriptName(), cfg.Run.MaxRuntime.Duration, updates)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()

	// the view is gone: stop an unfinished run and drain what is left
	cancel()
	for range updates {
	}
	return <-outcomeCh, uiErr
}
