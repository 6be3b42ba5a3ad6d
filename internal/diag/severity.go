package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning is for warning diagnostics.
	SevWarning Severity = iota + 1
	// SevError is for error diagnostics.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case form used in interpreter output.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// ParseSeverity maps a severity word to a Severity, case-insensitively.
func ParseSeverity(word string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "error":
		return SevError, true
	case "warning":
		return SevWarning, true
	}
	return 0, false
}
