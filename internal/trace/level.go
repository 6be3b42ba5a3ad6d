package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring only, dumped on crash
	LevelPhase               // app + session events
	LevelDetail              // process events
	LevelDebug               // everything including ticks
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// widest scope a level lets through; 0 lets nothing through
var levelScopes = [...]Scope{
	LevelPhase:  ScopeSession,
	LevelDetail: ScopeProcess,
	LevelDebug:  ScopeTick,
}

func (l Level) String() string {
	if l == LevelOff {
		return "off"
	}
	return nameOf(levelNames[:], int(l))
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	i, ok := parseName(levelNames[:], s)
	if !ok {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
	}
	return Level(i), nil
}

// ShouldEmit reports whether events of scope are written at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScopes) {
		return false
	}
	widest := levelScopes[l]
	return widest != 0 && scope != 0 && scope <= widest
}
