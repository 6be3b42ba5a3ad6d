package diag

import "fmt"

// Record is one parsed diagnostic reported by the interpreter.
// Line and Column are 1-based as reported; 0 means the value was absent.
type Record struct {
	Severity Severity
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// HasLine reports whether the interpreter pinpointed a line.
func (r Record) HasLine() bool {
	return r.Line > 0
}

// Synthetic reports whether the record was manufactured from unstructured
// output rather than parsed from a header.
func (r Record) Synthetic() bool {
	return r.Line == 0 && r.Path == ""
}

func (r Record) String() string {
	switch {
	case r.Line == 0:
		return fmt.Sprintf("%s: %s", r.Severity.Label(), r.Message)
	case r.Column == 0:
		return fmt.Sprintf("%s:%d: %s: %s", r.Path, r.Line, r.Severity.Label(), r.Message)
	default:
		return fmt.Sprintf("%s:%d:%d: %s: %s", r.Path, r.Line, r.Column, r.Severity.Label(), r.Message)
	}
}
