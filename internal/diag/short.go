package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatShort renders one record per line:
//
//	<severity> <path>:<line>:<col> <message>
//
// Whitespace runs in the message, newlines included, collapse to one space.
// The output has no trailing newline.
func FormatShort(records []Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("%s %s:%d:%d %s",
			r.Severity.Label(), shortPath(r.Path), r.Line, r.Column,
			strings.Join(strings.Fields(r.Message), " "))
	}
	return strings.Join(lines, "\n")
}

func shortPath(path string) string {
	if path == "" {
		return "-"
	}
	p := filepath.ToSlash(path)
	for {
		rest, ok := strings.CutPrefix(p, "./")
		if !ok {
			return p
		}
		p = rest
	}
}
