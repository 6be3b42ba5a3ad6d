package main

import (
	"context"
	"time"

	"scriptpad/internal/config"
	"scriptpad/internal/runner"
	"scriptpad/internal/session"
)

// sessionOptions builds coordinator options from the configuration.
func sessionOptions(cfg config.Config) session.Options {
	return session.Options{
		Parser:     cfg.Parser(),
		ScriptName: cfg.ScriptName(),
		Dedup:      cfg.Diagnostics.Dedup,
	}
}

// runHeadless executes text once and drives the coordinator from a ticker
// until the session ends. Cancelling ctx stops the script. onTick, when set,
// is called after every poll while the session is still busy.
func runHeadless(ctx context.Context, cfg config.Config, text string, obs session.Observer, onTick func(elapsed time.Duration)) *session.Session {
	launcher := session.FromRunner(runner.New(cfg.RunnerConfig()))
	coord := session.New(ctx, launcher, obs, sessionOptions(cfg))
	defer coord.Close()

	start := time.Now()
	if _, err := coord.Run(text); err != nil {
		return coord.Current()
	}

	ticker := time.NewTicker(cfg.Run.PollInterval.Duration)
	defer ticker.Stop()
	for coord.Busy() {
		select {
		case <-ctx.Done():
			coord.Cancel()
		case now := <-ticker.C:
			coord.Tick(now)
			if onTick != nil && coord.Busy() {
				onTick(now.Sub(start))
			}
		}
	}
	return coord.Current()
}
