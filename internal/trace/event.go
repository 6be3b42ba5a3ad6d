package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string { return nameOf(kindNames[:], int(k)) }

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	// ScopeApp covers CLI and UI lifetime events.
	ScopeApp Scope = iota + 1
	// ScopeSession covers run requests and session state transitions.
	ScopeSession
	// ScopeProcess covers the child process and stderr parsing.
	ScopeProcess
	ScopeTick // every poll tick
)

var scopeNames = [...]string{
	ScopeApp:     "app",
	ScopeSession: "session",
	ScopeProcess: "process",
	ScopeTick:    "tick",
}

func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }

// Attr is a key=value annotation. Events keep attrs in the order they were
// added.
type Attr struct {
	Key   string
	Value string
}

// KV builds an Attr, formatting value with fmt.Sprint.
func KV(key string, value any) Attr {
	if s, ok := value.(string); ok {
		return Attr{Key: key, Value: s}
	}
	return Attr{Key: key, Value: fmt.Sprint(value)}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned on first emit
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "session.run", "process", "parse"
	Detail   string
	Dur      time.Duration // span end only
	Attrs    []Attr
}

// Attr returns the value of the first attr named key.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func nameOf(names []string, i int) string {
	if i <= 0 || i >= len(names) || names[i] == "" {
		return "unknown"
	}
	return names[i]
}

// parseName finds s in names ignoring case. Index 0 only matches when it
// carries a name.
func parseName(names []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if n != "" && strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}
