package runner

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Stream identifies the pipe a chunk was read from.
type Stream uint8

const (
	Stdout Stream = iota + 1
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// Chunk is one piece of output in arrival order.
type Chunk struct {
	Stream Stream
	Seq    uint64
	Text   string
}

const truncatedNotice = "\n[output truncated]\n"

// chunkQueue collects output from the pipe copiers until the UI polls it.
type chunkQueue struct {
	mu        sync.Mutex
	pending   []Chunk
	seq       uint64
	stderr    strings.Builder
	outBytes  int
	maxOutput int
	truncated bool
}

func (q *chunkQueue) push(stream Stream, text string) {
	if text == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if stream == Stderr {
		q.stderr.WriteString(text)
	} else if q.maxOutput > 0 {
		if q.truncated {
			return
		}
		if q.outBytes+len(text) > q.maxOutput {
			text = strings.ToValidUTF8(text[:q.maxOutput-q.outBytes], "") + truncatedNotice
			q.truncated = true
		}
		q.outBytes += len(text)
	}
	q.seq++
	q.pending = append(q.pending, Chunk{Stream: stream, Seq: q.seq, Text: text})
}

func (q *chunkQueue) drain() []Chunk {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

func (q *chunkQueue) stderrText() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stderr.String()
}

// streamWriter is handed to exec.Cmd as Stdout or Stderr. It holds back a
// trailing incomplete UTF-8 sequence so that no chunk splits a rune.
type streamWriter struct {
	queue  *chunkQueue
	stream Stream
	carry  []byte
}

func (w *streamWriter) Write(p []byte) (int, error) {
	n := len(p)
	buf := p
	if len(w.carry) > 0 {
		buf = append(w.carry, p...)
		w.carry = nil
	}
	complete, rest := splitComplete(buf)
	if len(rest) > 0 {
		w.carry = append([]byte(nil), rest...)
	}
	w.queue.push(w.stream, string(complete))
	return n, nil
}

// flush emits whatever is still held back, replacing broken bytes.
func (w *streamWriter) flush() {
	if len(w.carry) == 0 {
		return
	}
	w.queue.push(w.stream, strings.ToValidUTF8(string(w.carry), "�"))
	w.carry = nil
}

func splitComplete(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i], b[i:]
		}
		break
	}
	return b, nil
}
