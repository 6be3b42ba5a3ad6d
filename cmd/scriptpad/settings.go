package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scriptpad/internal/config"
)

// loadConfig reads --config when given, otherwise the nearest scriptpad.toml
// above the working directory, otherwise the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

// resolveColor combines --color with [ui].color and applies the result to
// fatih/color as well.
func resolveColor(cmd *cobra.Command, cfg config.Config) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if mode == "" {
		mode = cfg.UI.Color
	}
	enabled, err := colorEnabled(mode, isTerminal(os.Stdout))
	if err != nil {
		return false, err
	}
	color.NoColor = !enabled
	return enabled, nil
}

func colorEnabled(mode string, tty bool) (bool, error) {
	v, err := choice("color", mode, "auto", "on", "off")
	switch {
	case err != nil:
		return false, err
	case v == "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	}
	return v == "on", nil
}

// choice normalises a flag value and checks it against allowed. An empty
// value selects the first allowed one.
func choice(flag, value string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return allowed[0], nil
	}
	if slices.Contains(allowed, v) {
		return v, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected %s)", flag, value, strings.Join(allowed, "|"))
}

// overrideInterpreter applies --interpreter and --interpreter-arg. A new
// command drops the configured args, since they belong to the old one; naming
// the configured command again keeps them.
func overrideInterpreter(ic *config.InterpreterConfig, command string, args []string, argsSet bool) {
	if command != "" && command != ic.Command {
		ic.Command = command
		ic.Args = nil
	}
	if argsSet {
		ic.Args = append([]string(nil), args...)
	}
}
