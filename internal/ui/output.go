package ui

import (
	"strings"

	"scriptpad/internal/diagparse"
)

// maxOutputLines bounds the transcript kept for display.
const maxOutputLines = 5000

type outputLine struct {
	text   string
	stderr bool
}

// outputLog is the rendered transcript. Lines are split on '\n'; the last
// line stays open until its terminator arrives.
type outputLog struct {
	lines []outputLine
	open  bool
}

func (l *outputLog) reset() {
	l.lines = nil
	l.open = false
}

func (l *outputLog) append(text string, stderr bool) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		last := i == len(parts)-1
		if last && part == "" {
			l.open = false
			break
		}
		if i == 0 && l.open && len(l.lines) > 0 && l.lines[len(l.lines)-1].stderr == stderr {
			l.lines[len(l.lines)-1].text += part
		} else {
			l.lines = append(l.lines, outputLine{text: part, stderr: stderr})
		}
		l.open = last
	}
	if over := len(l.lines) - maxOutputLines; over > 0 {
		l.lines = append([]outputLine(nil), l.lines[over:]...)
	}
}

func (l *outputLog) note(text string) {
	l.open = false
	l.lines = append(l.lines, outputLine{text: text})
}

func (l *outputLog) render(st styles, refs *diagparse.ReferenceMatcher) string {
	var b strings.Builder
	for i, line := range l.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if !line.stderr {
			b.WriteString(st.stdout.Render(line.text))
			continue
		}
		pos := 0
		for _, ref := range refs.Find(line.text) {
			b.WriteString(st.stderr.Render(line.text[pos:ref.Start]))
			b.WriteString(st.reference.Render(line.text[ref.Start:ref.End]))
			pos = ref.End
		}
		b.WriteString(st.stderr.Render(line.text[pos:]))
	}
	return b.String()
}

// referenceAt returns the first script reference on the given line.
func (l *outputLog) referenceAt(row int, refs *diagparse.ReferenceMatcher) (diagparse.Reference, bool) {
	if row < 0 || row >= len(l.lines) {
		return diagparse.Reference{}, false
	}
	found := refs.Find(l.lines[row].text)
	if len(found) == 0 {
		return diagparse.Reference{}, false
	}
	return found[0], true
}
