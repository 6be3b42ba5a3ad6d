package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func shRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cfg.Interpreter = "sh"
	cfg.ScriptExt = "sh"
	return New(cfg)
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not finish in time")
	}
}

func collect(h *Handle, stream Stream) string {
	var sb strings.Builder
	for _, c := range h.Poll() {
		if c.Stream == stream {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func TestStartSuccess(t *testing.T) {
	r := shRunner(t, Config{})
	h, err := r.Start(context.Background(), "echo hello\necho world\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, h)

	if !h.Finished() {
		t.Fatal("handle should be finished after Done")
	}
	code, ok := h.ExitStatus()
	if !ok || code != 0 {
		t.Fatalf("ExitStatus = %d, %v", code, ok)
	}
	if got := collect(h, Stdout); got != "hello\nworld\n" {
		t.Fatalf("stdout = %q", got)
	}
	if h.Poll() != nil {
		t.Fatal("second poll should be empty")
	}
	if h.Canceled() || h.TimedOut() {
		t.Fatal("unexpected cancel/timeout flags")
	}
	if _, err := os.Stat(h.ScriptPath()); !os.IsNotExist(err) {
		t.Fatalf("script should be removed after exit, stat err = %v", err)
	}
}

func TestStartFailureKeepsStderr(t *testing.T) {
	r := shRunner(t, Config{})
	h, err := r.Start(context.Background(), "echo out\necho 'script.kts:2:5: error: boom' >&2\nexit 3\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := h.Stderr(); got != "" {
		t.Fatalf("Stderr before finish = %q", got)
	}
	waitDone(t, h)

	code, _ := h.ExitStatus()
	if code != 3 {
		t.Fatalf("exit = %d, want 3", code)
	}
	if got := h.Stderr(); got != "script.kts:2:5: error: boom\n" {
		t.Fatalf("Stderr = %q", got)
	}
	var last uint64
	for _, c := range h.Poll() {
		if c.Seq <= last {
			t.Fatalf("chunks out of order: %d after %d", c.Seq, last)
		}
		last = c.Seq
	}
}

func TestScriptNameAndEnv(t *testing.T) {
	r := shRunner(t, Config{ScriptBase: "main", Env: []string{"SCRIPTPAD_TEST=yes"}})
	h, err := r.Start(context.Background(), "basename \"$0\"\necho $SCRIPTPAD_TEST\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, h)
	if got := collect(h, Stdout); got != "main.sh\nyes\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestCancelKillsGroup(t *testing.T) {
	r := shRunner(t, Config{})
	h, err := r.Start(context.Background(), "sleep 30 &\nsleep 30\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if Live() != 1 {
		t.Fatalf("Live = %d while running", Live())
	}
	began := time.Now()
	h.Cancel()
	h.Cancel()
	waitDone(t, h)
	if Live() != 0 {
		t.Fatalf("Live = %d after the process was reaped", Live())
	}

	if time.Since(began) > waitDelay {
		t.Fatalf("cancel took %v, background child kept pipes open", time.Since(began))
	}
	if !h.Canceled() {
		t.Fatal("Canceled should be true")
	}
	if code, _ := h.ExitStatus(); code == 0 {
		t.Fatal("killed process must not report success")
	}
	if _, err := os.Stat(h.ScriptPath()); !os.IsNotExist(err) {
		t.Fatalf("script should be removed after cancel, stat err = %v", err)
	}
}

func TestContextCancel(t *testing.T) {
	r := shRunner(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	h, err := r.Start(ctx, "sleep 30\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	waitDone(t, h)
	if !h.Canceled() {
		t.Fatal("context cancellation should cancel the handle")
	}
}

func TestMaxRuntime(t *testing.T) {
	r := shRunner(t, Config{MaxRuntime: 200 * time.Millisecond})
	h, err := r.Start(context.Background(), "sleep 30\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, h)
	if !h.TimedOut() {
		t.Fatal("expected timeout")
	}
	if code, _ := h.ExitStatus(); code != 128+9 {
		t.Fatalf("exit = %d, want %d", code, 128+9)
	}
}

func TestMaxOutput(t *testing.T) {
	r := shRunner(t, Config{MaxOutput: 4})
	h, err := r.Start(context.Background(), "echo 0123456789\n")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, h)
	if got := collect(h, Stdout); got != "0123"+truncatedNotice {
		t.Fatalf("stdout = %q", got)
	}
}

func TestInterpreterNotFound(t *testing.T) {
	r := New(Config{Interpreter: "scriptpad-no-such-interpreter"})
	h, err := r.Start(context.Background(), "println(1)")
	if h != nil {
		t.Fatal("no handle expected on launch failure")
	}
	if !errors.Is(err, ErrInterpreterNotFound) {
		t.Fatalf("err = %v, want ErrInterpreterNotFound", err)
	}
	var le *LaunchError
	if !errors.As(err, &le) || le.ExitCode() != ExitNotFound {
		t.Fatalf("err = %#v", err)
	}
	want := "scriptpad-no-such-interpreter not found. Please make sure it is in your PATH."
	if err.Error() != want {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestStreamWriterKeepsRunesWhole(t *testing.T) {
	q := &chunkQueue{}
	w := &streamWriter{queue: q, stream: Stdout}
	data := []byte("añ€😀")
	for i := range data {
		if _, err := w.Write(data[i : i+1]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	var sb strings.Builder
	for _, c := range q.drain() {
		sb.WriteString(c.Text)
		if !strings.HasPrefix(string(data), sb.String()) {
			t.Fatalf("chunk %q broke a rune", c.Text)
		}
	}
	if sb.String() != string(data) {
		t.Fatalf("got %q", sb.String())
	}

	_, _ = w.Write([]byte{0xE2, 0x82})
	w.flush()
	if got := q.drain(); len(got) != 1 || got[0].Text != "�" {
		t.Fatalf("flush of broken tail = %+v", got)
	}
}

func TestDefaults(t *testing.T) {
	cfg := New(Config{}).Config()
	if cfg.Interpreter != "kotlinc" || cfg.ScriptName() != "script.kts" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "-script" {
		t.Fatalf("args = %v", cfg.Args)
	}
}
