package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/source"
	"scriptpad/internal/trace"
	"scriptpad/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the editor workspace",
	Long: `Open a script in the editor. ctrl+r runs it, ctrl+k stops the run,
tab moves to the error list and enter jumps to the selected error. ctrl+s
saves to the file given on the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return fmt.Errorf("the editor needs a terminal; use `scriptpad run <file>` instead")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := resolveColor(cmd, cfg); err != nil {
		return err
	}

	var (
		path, text string
		encoding   source.BufferFlags
	)
	if len(args) == 1 {
		path = args[0]
		buf, err := source.Load(path)
		switch {
		case err == nil:
			text, encoding = buf.Text(), buf.Flags
		case errors.Is(err, os.ErrNotExist):
			// new file, created on first save
		default:
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	trace.Point(trace.FromContext(ctx), trace.ScopeApp, "edit", path, 0)

	ws := ui.NewWorkspace(ui.Options{
		Context:      ctx,
		Path:         path,
		Text:         text,
		Encoding:     encoding,
		ScriptBase:   cfg.Script.Basename,
		ScriptExt:    cfg.Script.Extension,
		PollInterval: cfg.Run.PollInterval.Duration,
		MaxRuntime:   cfg.Run.MaxRuntime.Duration,
		Theme:        cfg.UI.Theme,
		Launcher:     session.FromRunner(runner.New(cfg.RunnerConfig())),
		Session:      sessionOptions(cfg),
	})
	program := tea.NewProgram(ws, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}
