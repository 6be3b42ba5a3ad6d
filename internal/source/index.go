package source

import (
	"bytes"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF folds every "\r\n" into "\n". A lone '\r' stays as is,
// interpreters count it as part of the line.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(content []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		return rest, true
	}
	return content, false
}

// indexNewlines records the offset of each '\n'.
func indexNewlines(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	base := 0
	for {
		n := bytes.IndexByte(content[base:], '\n')
		if n < 0 {
			return idx
		}
		base += n
		idx = append(idx, uint32(base)) // #nosec G115 -- checked in newBuffer
		base++
	}
}

// lineSpan returns the byte range [start, end) of the 0-based line.
func lineSpan(newlines []uint32, size uint32, line int) (start, end uint32) {
	if line > 0 {
		start = newlines[line-1] + 1
	}
	end = size
	if line < len(newlines) {
		end = newlines[line]
	}
	return start, end
}

// displayPath makes a disk path stable across platforms.
func displayPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
