// Package transcript stores finished sessions on disk so that `scriptpad
// show` can render them later.
package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"scriptpad/internal/diag"
	"scriptpad/internal/locate"
	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/source"
)

// Current schema version - increment when Transcript format changes
const schemaVersion uint16 = 1

// ErrSchema is returned by Load for files written by another format version.
var ErrSchema = errors.New("unsupported transcript schema")

// Transcript is the serialised form of a session.
type Transcript struct {
	Schema uint16 `msgpack:"schema"`

	Session    uint64    `msgpack:"session"`
	State      string    `msgpack:"state"`
	ScriptName string    `msgpack:"script_name"`
	Source     string    `msgpack:"source"`
	Started    time.Time `msgpack:"started"`
	Elapsed    int64     `msgpack:"elapsed_ns"`
	ExitCode   int       `msgpack:"exit_code"`
	TimedOut   bool      `msgpack:"timed_out"`

	Output      []Chunk      `msgpack:"output"`
	Stderr      string       `msgpack:"stderr"`
	Diagnostics []Diagnostic `msgpack:"diagnostics"`
}

// Chunk is one piece of recorded output.
type Chunk struct {
	Stream uint8  `msgpack:"stream"`
	Text   string `msgpack:"text"`
}

// Diagnostic is a record as the interpreter reported it. Restore resolves it
// again against the saved source.
type Diagnostic struct {
	Severity uint8  `msgpack:"severity"`
	Path     string `msgpack:"path"`
	Line     uint32 `msgpack:"line"`
	Column   uint32 `msgpack:"column"`
	Message  string `msgpack:"message"`
}

// FromSession captures sess.
func FromSession(sess *session.Session) *Transcript {
	t := &Transcript{
		Schema:   schemaVersion,
		Session:  uint64(sess.ID),
		State:    sess.State.String(),
		Started:  sess.Started,
		Elapsed:  int64(sess.Timings.Duration(session.PhaseRun)),
		ExitCode: sess.ExitCode,
		TimedOut: sess.TimedOut,
		Stderr:   sess.Stderr,
	}
	if sess.Source != nil {
		t.ScriptName = sess.Source.Name
		t.Source = sess.Source.Text()
	}
	t.Output = make([]Chunk, len(sess.Output))
	for i, c := range sess.Output {
		t.Output[i] = Chunk{Stream: uint8(c.Stream), Text: c.Text}
	}
	t.Diagnostics = make([]Diagnostic, len(sess.Diagnostics))
	for i, d := range sess.Diagnostics {
		t.Diagnostics[i] = Diagnostic{
			Severity: uint8(d.Record.Severity),
			Path:     d.Record.Path,
			Line:     d.Record.Line,
			Column:   d.Record.Column,
			Message:  d.Record.Message,
		}
	}
	return t
}

// Restore rebuilds a session snapshot. Diagnostics are resolved again
// against the recorded source.
func (t *Transcript) Restore() *session.Session {
	sess := &session.Session{
		ID:       session.ID(t.Session),
		Source:   source.NewBuffer(t.ScriptName, t.Source),
		State:    parseState(t.State),
		Started:  t.Started,
		ExitCode: t.ExitCode,
		TimedOut: t.TimedOut,
		Stderr:   t.Stderr,
	}
	sess.Timings.Set(session.PhaseRun, time.Duration(t.Elapsed))
	if !t.Started.IsZero() {
		sess.Ended = t.Started.Add(time.Duration(t.Elapsed))
	}

	var seq uint64
	for _, c := range t.Output {
		seq++
		sess.Output = append(sess.Output, runner.Chunk{Stream: runner.Stream(c.Stream), Seq: seq, Text: c.Text})
	}

	records := make([]diag.Record, len(t.Diagnostics))
	for i, d := range t.Diagnostics {
		records[i] = diag.Record{
			Severity: diag.Severity(d.Severity),
			Path:     d.Path,
			Line:     d.Line,
			Column:   d.Column,
			Message:  d.Message,
		}
	}
	sess.Diagnostics = locate.ResolveAll(records, sess.Source)
	return sess
}

func parseState(s string) session.State {
	for st := session.Pending; st <= session.Cancelled; st++ {
		if st.String() == s {
			return st
		}
	}
	return session.Failed
}

// Save writes t to path atomically.
func Save(path string, t *Transcript) (err error) {
	if t.Schema == 0 {
		t.Schema = schemaVersion
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".transcript-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()           //nolint:errcheck
			_ = os.Remove(f.Name()) //nolint:errcheck
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(t); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// Load reads a transcript written by Save.
func Load(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var t Transcript
	if err := msgpack.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", path, err)
	}
	if t.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, t.Schema)
	}
	return &t, nil
}
