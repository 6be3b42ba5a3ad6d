package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"scriptpad/internal/diag"
	"scriptpad/internal/locate"
	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/source"
)

func failedSession() *session.Session {
	buf := source.NewBuffer("script.kts", "val a = 1\nfoo()\n")
	rec := diag.Record{Severity: diag.SevError, Path: "script.kts", Line: 2, Column: 1, Message: "unresolved reference: foo"}
	sess := &session.Session{
		ID:       4,
		Source:   buf,
		State:    session.Failed,
		Started:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		ExitCode: 1,
		Output: []runner.Chunk{
			{Stream: runner.Stdout, Seq: 1, Text: "before\n"},
			{Stream: runner.Stderr, Seq: 2, Text: "script.kts:2:1: error: unresolved reference: foo\n"},
		},
		Stderr:      "script.kts:2:1: error: unresolved reference: foo\n",
		Diagnostics: locate.ResolveAll([]diag.Record{rec}, buf),
	}
	sess.Timings.Set(session.PhaseRun, 250*time.Millisecond)
	return sess
}

func TestSaveLoadRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "last.mp")
	if err := Save(path, FromSession(failedSession())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sess := loaded.Restore()
	if sess.ID != 4 || sess.State != session.Failed || sess.ExitCode != 1 {
		t.Fatalf("restored = %+v", sess)
	}
	if sess.Source.Text() != "val a = 1\nfoo()\n" || sess.Source.Name != "script.kts" {
		t.Fatalf("source = %q (%s)", sess.Source.Text(), sess.Source.Name)
	}
	if sess.Stdout() != "before\n" || len(sess.Output) != 2 || sess.Output[1].Stream != runner.Stderr {
		t.Fatalf("output = %+v", sess.Output)
	}
	if len(sess.Diagnostics) != 1 || sess.Diagnostics[0].Location != (locate.Location{Line: 2, Column: 1, Exact: true}) {
		t.Fatalf("diagnostics = %+v", sess.Diagnostics)
	}
	if sess.Timings.Duration(session.PhaseRun) != 250*time.Millisecond {
		t.Fatalf("elapsed = %v", sess.Timings.Duration(session.PhaseRun))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestLoadRejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.mp")
	data, err := msgpack.Marshal(&Transcript{Schema: schemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.mp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
