package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scriptpad/internal/diagparse"
	sprogress "scriptpad/internal/progress"
)

func TestOutputLogAppend(t *testing.T) {
	var l outputLog
	l.append("hel", false)
	l.append("lo\nwor", false)
	l.append("ld\n", false)
	l.append("oops\n", true)
	l.append("partial", false)
	l.append(" err", true)

	want := []outputLine{
		{text: "hello"},
		{text: "world"},
		{text: "oops", stderr: true},
		{text: "partial"},
		{text: " err", stderr: true},
	}
	if len(l.lines) != len(want) {
		t.Fatalf("lines = %+v", l.lines)
	}
	for i := range want {
		if l.lines[i] != want[i] {
			t.Fatalf("line %d = %+v, want %+v", i, l.lines[i], want[i])
		}
	}
}

func TestOutputLogCap(t *testing.T) {
	var l outputLog
	for range maxOutputLines + 10 {
		l.append("x\n", false)
	}
	if len(l.lines) != maxOutputLines {
		t.Fatalf("kept %d lines", len(l.lines))
	}
}

func TestOutputLogReference(t *testing.T) {
	refs := diagparse.NewReferenceMatcher("script", "kts")
	var l outputLog
	l.append("plain\n\tat Script.main(script.kts:7)\n", true)

	if _, ok := l.referenceAt(0, refs); ok {
		t.Fatal("no reference expected on first line")
	}
	ref, ok := l.referenceAt(1, refs)
	if !ok || ref.Line != 7 || ref.Column != 0 {
		t.Fatalf("ref = %+v, ok = %v", ref, ok)
	}
	if _, ok := l.referenceAt(5, refs); ok {
		t.Fatal("out of range row should not match")
	}
}

func TestProgressModelApply(t *testing.T) {
	ch := make(chan RunUpdate)
	m := NewProgressModel("script.kts", 10*time.Second, ch).(*progressModel)

	m.apply(RunUpdate{Progress: &sprogress.Event{Status: sprogress.StatusRunning, Elapsed: 5 * time.Second}})
	m.apply(RunUpdate{Text: "hello\n"})
	if m.status != sprogress.StatusRunning || len(m.log.lines) != 1 {
		t.Fatalf("model = %+v", m)
	}
	m.apply(RunUpdate{Progress: &sprogress.Event{Status: sprogress.StatusFinished, ExitCode: 3}})
	if m.exitCode != 3 || statusLabel(m.status, m.exitCode) != "exit 3" {
		t.Fatalf("exit = %d", m.exitCode)
	}

	close(ch)
	if _, ok := m.listenForUpdate()().(doneMsg); !ok {
		t.Fatal("closed channel should yield doneMsg")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestMoveCursor(t *testing.T) {
	w := NewWorkspace(Options{Text: "one\ntwo\nthree\n"})
	moveCursor(&w.editor, 2, 3)
	if w.editor.Line() != 1 {
		t.Fatalf("row = %d, want 1", w.editor.Line())
	}
	moveCursor(&w.editor, 99, 1)
	if w.editor.Line() != 3 {
		t.Fatalf("row = %d, want last line", w.editor.Line())
	}
	moveCursor(&w.editor, 0, 0)
	if w.editor.Line() != 0 {
		t.Fatalf("row = %d, want 0", w.editor.Line())
	}
}

func TestProgressModelQuitsOnCtrlC(t *testing.T) {
	m := NewProgressModel("script.kts", 0, make(chan RunUpdate))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit")
	}
}
