package source

import (
	"fmt"
	"os"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Buffer is an immutable snapshot of editor text with a line index.
// Lines are addressed 1-based; columns are counted in runes, 1-based.
type Buffer struct {
	Name    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Flags   BufferFlags
}

// NewBuffer snapshots text under the given display name.
// CRLF endings are folded into \n and a leading BOM is dropped so that line
// numbers agree with what an interpreter reports.
func NewBuffer(name, text string) *Buffer {
	return newBuffer(name, []byte(text), 0)
}

// Load reads a file from disk into a Buffer named by its cleaned,
// slash-separated path. Errors from the read are returned unwrapped.
func Load(path string) (*Buffer, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newBuffer(displayPath(path), content, 0), nil
}

func newBuffer(name string, content []byte, flags BufferFlags) *Buffer {
	content, hadBOM := stripBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= BufferHadBOM
	}
	if hadCRLF {
		flags |= BufferNormalizedCRLF
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("buffer too large: %w", err))
	}
	return &Buffer{
		Name:    name,
		Content: content,
		LineIdx: indexNewlines(content),
		Flags:   flags,
	}
}

// Text returns the normalised buffer contents.
func (b *Buffer) Text() string {
	if b == nil {
		return ""
	}
	return string(b.Content)
}

// LineCount returns the number of addressable lines. An empty buffer and a
// buffer ending in '\n' both have a final (possibly empty) line, the way a
// text widget shows them.
func (b *Buffer) LineCount() int {
	if b == nil {
		return 1
	}
	return len(b.LineIdx) + 1
}

// Line returns the text of the 1-based line without its terminator.
// Out-of-range lines yield "".
func (b *Buffer) Line(n int) string {
	if b == nil || n < 1 || n > b.LineCount() {
		return ""
	}
	start, end := lineSpan(b.LineIdx, b.contentLen(), n-1)
	return string(b.Content[start:end])
}

// LineLength returns the rune length of the 1-based line, 0 when out of range.
func (b *Buffer) LineLength(n int) int {
	if b == nil || n < 1 || n > b.LineCount() {
		return 0
	}
	start, end := lineSpan(b.LineIdx, b.contentLen(), n-1)
	return utf8.RuneCount(b.Content[start:end])
}

// LineLengths returns the rune length of every line, indexed from 0.
func (b *Buffer) LineLengths() []int {
	count := b.LineCount()
	out := make([]int, count)
	if b == nil {
		return out
	}
	for i := range count {
		start, end := lineSpan(b.LineIdx, b.contentLen(), i)
		out[i] = utf8.RuneCount(b.Content[start:end])
	}
	return out
}

func (b *Buffer) contentLen() uint32 {
	n, err := safecast.Conv[uint32](len(b.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}
