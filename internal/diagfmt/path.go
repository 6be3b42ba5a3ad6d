package diagfmt

import (
	"path/filepath"
	"strings"

	"scriptpad/internal/locate"
	"scriptpad/internal/source"
)

// autoPathLimit is the length above which PathModeAuto falls back to the
// basename.
const autoPathLimit = 40

func displayPath(d locate.Resolved, buf *source.Buffer, mode PathMode) string {
	path := d.Record.Path
	if path == "" && buf != nil {
		path = buf.Name
	}
	if path == "" {
		return "-"
	}
	path = filepath.ToSlash(path)
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	default:
		if len(path) > autoPathLimit && strings.Contains(path, "/") {
			return filepath.Base(path)
		}
		return path
	}
}
