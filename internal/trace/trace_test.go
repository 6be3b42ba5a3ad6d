package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeApp, false},
		{LevelError, ScopeApp, false},
		{LevelPhase, ScopeSession, true},
		{LevelPhase, ScopeProcess, false},
		{LevelDetail, ScopeProcess, true},
		{LevelDetail, ScopeTick, false},
		{LevelDebug, ScopeTick, true},
		{Level(9), ScopeApp, false},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestNames(t *testing.T) {
	if l, err := ParseLevel(" DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if l, err := ParseLevel("off"); err != nil || l != LevelOff || l.String() != "off" {
		t.Fatalf("ParseLevel(off) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if Kind(0).String() != "unknown" || Scope(42).String() != "unknown" {
		t.Fatal("out of range values should print as unknown")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeSession, "session.run", 0)
	Point(tr, ScopeProcess, "process.kill", "superseded", span.ID(), KV("pid", 42))
	Point(tr, ScopeTick, "tick", "", span.ID())
	span.With("state", "cancelled").With("exit", 137).End("")

	out := buf.String()
	if !strings.Contains(out, "→ session.run\n") {
		t.Fatalf("missing begin event:\n%s", out)
	}
	if !strings.Contains(out, "• process.kill (superseded) {pid=42}") {
		t.Fatalf("missing point event:\n%s", out)
	}
	if !strings.Contains(out, "{state=cancelled, exit=137}") {
		t.Fatalf("attrs should keep insertion order:\n%s", out)
	}
	if strings.Contains(out, "tick") {
		t.Fatalf("tick events must be filtered at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(tr, ScopeSession, "session.stale", "#3", 0, KV("reason", "superseded"))

	var decoded map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if decoded["name"] != "session.stale" || decoded["scope"] != "session" || decoded["kind"] != "point" {
		t.Fatalf("unexpected event %v", decoded)
	}
	attrs, ok := decoded["attrs"].(map[string]any)
	if !ok || attrs["reason"] != "superseded" {
		t.Fatalf("attrs = %v", decoded["attrs"])
	}
}

func TestFileStreamIsBufferedUntilClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeApp, "start", "", 0)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("{")) || !bytes.Contains(data, []byte(`"name":"start"`)) {
		t.Fatalf(".ndjson output should be JSON, got %q", data)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeSession, Name: name})
	}
	ring.Emit(&Event{Kind: KindPoint, Scope: ScopeTick, Name: "tick"})

	snap := ring.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap[0].Seq >= snap[1].Seq {
		t.Fatal("events should carry increasing sequence numbers")
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("Dump wrote %q", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New(both): %v", err)
	}
	if RingOf(tr) == nil {
		t.Fatal("ModeBoth should carry a ring")
	}
	Point(tr, ScopeApp, "start", "", 0)
	snap := RingOf(tr).Snapshot()
	if buf.Len() == 0 || len(snap) != 1 {
		t.Fatal("event should reach both stream and ring")
	}
	if !strings.Contains(buf.String(), "• start") {
		t.Fatalf("stream output = %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(42)}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestStartParentsOnContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	ring := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := Start(ctx, ScopeSession, "session.run")
	inner, _ := Start(ctx, ScopeProcess, "process")
	inner.End("")
	outer.End("")

	if CurrentSpan(ctx) != outer.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", CurrentSpan(ctx), outer.ID())
	}
	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("ring holds %d events", len(snap))
	}
	if snap[1].Name != "process" || snap[1].ParentID != outer.ID() {
		t.Fatalf("inner span not parented: %+v", snap[1])
	}
}

func TestDisabledSpanStillTimes(t *testing.T) {
	span := Begin(Nop, ScopeProcess, "parse", 0)
	time.Sleep(time.Millisecond)
	if span.With("records", 2).End("") <= 0 {
		t.Fatal("disabled spans should still measure duration")
	}
	if span.ID() != 0 {
		t.Fatal("disabled span should have no id")
	}
	var nilSpan *Span
	if nilSpan.End("") != 0 || nilSpan.Tracer() != Nop {
		t.Fatal("nil span should be inert")
	}
}

func TestHeartbeatProbe(t *testing.T) {
	if hb := StartHeartbeat(Nop, time.Millisecond, nil); hb != nil {
		t.Fatal("disabled tracer should not start a heartbeat")
	}
	var nilHB *Heartbeat
	nilHB.Stop()

	ring := NewRingTracer(16, LevelError)
	hb := StartHeartbeat(ring, time.Millisecond, func() []Attr {
		return []Attr{KV("live", 0)}
	})
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	snap := ring.Snapshot()
	if len(snap) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	if v, ok := snap[0].Attr("live"); !ok || v != "0" || snap[0].Kind != KindHeartbeat {
		t.Fatalf("heartbeat = %+v", snap[0])
	}
}
