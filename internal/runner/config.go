package runner

import "time"

// Config describes how scripts are launched.
type Config struct {
	Interpreter string        // executable looked up in PATH
	Args        []string      // arguments placed before the script path
	ScriptBase  string        // file name of the temporary script, without extension
	ScriptExt   string        // extension without the dot
	Dir         string        // working directory; empty means the temporary directory
	Env         []string      // extra KEY=VALUE entries appended to os.Environ
	MaxRuntime  time.Duration // 0 disables the watchdog
	MaxOutput   int           // stdout bytes kept in chunks; 0 means unlimited
}

// DefaultConfig runs Kotlin scripts through kotlinc.
func DefaultConfig() Config {
	return Config{
		Interpreter: "kotlinc",
		Args:        []string{"-script"},
		ScriptBase:  "script",
		ScriptExt:   "kts",
	}
}

// ScriptName returns the base name of the temporary script file.
func (c Config) ScriptName() string {
	base := c.ScriptBase
	if base == "" {
		base = "script"
	}
	if c.ScriptExt == "" {
		return base
	}
	return base + "." + c.ScriptExt
}
