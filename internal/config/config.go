// Package config loads scriptpad.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"scriptpad/internal/diag"
	"scriptpad/internal/diagparse"
	"scriptpad/internal/runner"
)

// FileName is the name looked up from the working directory upwards.
const FileName = "scriptpad.toml"

// DefaultPollInterval is how often the UI polls a running script.
const DefaultPollInterval = 100 * time.Millisecond

// Config mirrors scriptpad.toml.
type Config struct {
	Interpreter InterpreterConfig `toml:"interpreter"`
	Script      ScriptConfig      `toml:"script"`
	Run         RunConfig         `toml:"run"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	UI          UIConfig          `toml:"ui"`

	// Path of the file the values came from, empty for defaults.
	Path string `toml:"-"`
}

type InterpreterConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Env     []string `toml:"env"`
	Dir     string   `toml:"dir"`
}

type ScriptConfig struct {
	Basename  string `toml:"basename"`
	Extension string `toml:"extension"`
}

type RunConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	MaxRuntime   Duration `toml:"max_runtime"`
	MaxOutput    int      `toml:"max_output"`
}

type DiagnosticsConfig struct {
	// Severities maps extra words to "error" or "warning".
	Severities map[string]string `toml:"severities"`
	// ScriptOnly keeps only headers whose path names the script file.
	ScriptOnly bool `toml:"script_only"`
	Dedup      bool `toml:"dedup"`
}

type UIConfig struct {
	Color string `toml:"color"` // auto|on|off
	Theme string `toml:"theme"` // dark|light
}

// Duration decodes TOML strings such as "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	rc := runner.DefaultConfig()
	return Config{
		Interpreter: InterpreterConfig{
			Command: rc.Interpreter,
			Args:    append([]string(nil), rc.Args...),
		},
		Script: ScriptConfig{
			Basename:  rc.ScriptBase,
			Extension: rc.ScriptExt,
		},
		Run: RunConfig{
			PollInterval: Duration{DefaultPollInterval},
		},
		UI: UIConfig{Color: "auto", Theme: "dark"},
	}
}

// Find walks up from startDir to locate scriptpad.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest scriptpad.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("interpreter", "command") && strings.TrimSpace(cfg.Interpreter.Command) == "" {
		return Config{}, fmt.Errorf("%s: [interpreter].command must not be empty", path)
	}
	if meta.IsDefined("interpreter", "command") && !meta.IsDefined("interpreter", "args") {
		// другой интерпретатор не должен наследовать "-script"
		cfg.Interpreter.Args = nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	if strings.HasPrefix(c.Script.Extension, ".") {
		return fmt.Errorf("[script].extension must not start with a dot: %q", c.Script.Extension)
	}
	if strings.ContainsAny(c.Script.Basename, `/\`) {
		return fmt.Errorf("[script].basename must be a plain file name: %q", c.Script.Basename)
	}
	if c.Run.PollInterval.Duration <= 0 {
		return fmt.Errorf("[run].poll_interval must be positive")
	}
	if c.Run.MaxRuntime.Duration < 0 {
		return fmt.Errorf("[run].max_runtime must not be negative")
	}
	if c.Run.MaxOutput < 0 {
		return fmt.Errorf("[run].max_output must not be negative")
	}
	for word, sev := range c.Diagnostics.Severities {
		if _, ok := diag.ParseSeverity(sev); !ok {
			return fmt.Errorf("[diagnostics].severities.%s: unknown severity %q", word, sev)
		}
	}
	switch c.UI.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[ui].color must be auto, on or off, got %q", c.UI.Color)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("[ui].theme must be dark or light, got %q", c.UI.Theme)
	}
	return nil
}

// ScriptName is the file name given to the temporary script.
func (c Config) ScriptName() string {
	return c.RunnerConfig().ScriptName()
}

// RunnerConfig converts to the runner's configuration.
func (c Config) RunnerConfig() runner.Config {
	return runner.Config{
		Interpreter: c.Interpreter.Command,
		Args:        append([]string(nil), c.Interpreter.Args...),
		ScriptBase:  c.Script.Basename,
		ScriptExt:   c.Script.Extension,
		Dir:         c.Interpreter.Dir,
		Env:         append([]string(nil), c.Interpreter.Env...),
		MaxRuntime:  c.Run.MaxRuntime.Duration,
		MaxOutput:   c.Run.MaxOutput,
	}
}

// Parser builds the stderr parser described by [diagnostics].
func (c Config) Parser() *diagparse.Parser {
	if len(c.Diagnostics.Severities) == 0 && !c.Diagnostics.ScriptOnly {
		return diagparse.Default
	}
	p := &diagparse.Parser{}
	if len(c.Diagnostics.Severities) > 0 {
		p.Severities = map[string]diag.Severity{
			"error":   diag.SevError,
			"warning": diag.SevWarning,
		}
		for word, name := range c.Diagnostics.Severities {
			sev, _ := diag.ParseSeverity(name)
			p.Severities[strings.ToLower(word)] = sev
		}
	}
	if c.Diagnostics.ScriptOnly {
		name := c.ScriptName()
		p.PathFilter = func(path string) bool {
			return filepath.Base(filepath.FromSlash(path)) == name
		}
	}
	return p
}
