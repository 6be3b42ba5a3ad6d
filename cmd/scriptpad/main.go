package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scriptpad/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "scriptpad [file]",
	Short: "Terminal scratchpad for running script snippets",
	Long: `scriptpad runs short script snippets through an external interpreter
(kotlinc -script by default) and maps the errors it reports back onto the
editor buffer. Without a subcommand it opens the editor.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runEdit,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to scriptpad.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off), overrides [ui].color")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to a file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

// main executes the root command. A script's own exit status is passed
// through; other errors exit 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version
	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(os.Stderr, "scriptpad: %v\n", err)
	return 1
}

// exitError carries a script's exit status out of RunE without printing.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
