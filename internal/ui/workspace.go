package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scriptpad/internal/diag"
	"scriptpad/internal/diagparse"
	"scriptpad/internal/locate"
	sprogress "scriptpad/internal/progress"
	"scriptpad/internal/runner"
	"scriptpad/internal/session"
	"scriptpad/internal/source"
	"scriptpad/internal/trace"
)

// Options configure the editing workspace.
type Options struct {
	Context      context.Context
	Path         string // file saved by ctrl+s, may be empty
	Text         string // initial buffer
	// Encoding holds the line endings and BOM written back on save.
	Encoding     source.BufferFlags
	ScriptBase   string
	ScriptExt    string
	PollInterval time.Duration
	MaxRuntime   time.Duration
	Theme        string
	Launcher     session.Launcher
	Session      session.Options
}

type focusArea uint8

const (
	focusEditor focusArea = iota
	focusDiagnostics
)

type pollMsg time.Time

type savedMsg struct {
	path string
	err  error
}

const maxDiagRows = 5

// Workspace is the interactive editor: a text area, the run transcript and
// the diagnostics of the last failed run. It owns the session coordinator
// and drives it from its poll tick.
type Workspace struct {
	ctx   context.Context
	opts  Options
	coord *session.Coordinator
	refs  *diagparse.ReferenceMatcher

	editor  textarea.Model
	output  viewport.Model
	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap
	st      styles

	log        outputLog
	diags      []locate.Resolved
	diagCursor int
	focus      focusArea

	progress  sprogress.State
	runStart  time.Time
	status    string
	statusSty lipgloss.Style
	savedText string

	width, height int
	outputTop     int
}

// NewWorkspace builds the model. The caller runs it with tea.NewProgram.
func NewWorkspace(opts Options) *Workspace {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.ScriptBase == "" {
		opts.ScriptBase = "script"
	}

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "// write a script, ctrl+r runs it"
	ta.SetValue(opts.Text)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	w := &Workspace{
		ctx:       opts.Context,
		opts:      opts,
		refs:      diagparse.NewReferenceMatcher(opts.ScriptBase, opts.ScriptExt),
		editor:    ta,
		output:    viewport.New(80, 8),
		spinner:   sp,
		bar:       bar,
		help:      help.New(),
		keys:      newKeyMap(),
		st:        newStyles(opts.Theme),
		savedText: opts.Text,
		width:     80,
		height:    24,
	}
	w.coord = session.New(opts.Context, opts.Launcher, w, opts.Session)
	w.keys.setBusy(false)
	w.setStatus("Ready", w.st.neutral)
	w.layout()
	return w
}

func (w *Workspace) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, w.poll())
}

func (w *Workspace) poll() tea.Cmd {
	return tea.Tick(w.opts.PollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (w *Workspace) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		w.coord.Tick(time.Time(msg))
		return w, w.poll()

	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
		w.layout()
		return w, nil

	case savedMsg:
		if msg.err != nil {
			w.setStatus("Save failed: "+msg.err.Error(), w.st.failure)
		} else {
			w.setStatus("Saved "+msg.path, w.st.neutral)
		}
		return w, nil

	case spinner.TickMsg:
		if !w.progress.Busy() {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case tea.MouseMsg:
		return w, w.handleMouse(msg)

	case tea.KeyMsg:
		if cmd, handled := w.handleKey(msg); handled {
			return w, cmd
		}
	}

	if w.focus == focusEditor {
		var cmd tea.Cmd
		w.editor, cmd = w.editor.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *Workspace) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, w.keys.Quit):
		w.coord.Close()
		return tea.Quit, true
	case key.Matches(msg, w.keys.Run):
		return w.run(), true
	case key.Matches(msg, w.keys.Stop):
		w.coord.Cancel()
		return nil, true
	case key.Matches(msg, w.keys.Save):
		return w.save(), true
	case key.Matches(msg, w.keys.Focus):
		w.toggleFocus()
		return nil, true
	}

	if w.focus != focusDiagnostics {
		return nil, false
	}
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.diagCursor > 0 {
			w.diagCursor--
		}
	case key.Matches(msg, w.keys.Down):
		if w.diagCursor < len(w.diags)-1 {
			w.diagCursor++
		}
	case key.Matches(msg, w.keys.Jump):
		if w.diagCursor < len(w.diags) {
			loc := w.diags[w.diagCursor].Location
			w.jumpTo(loc.Line, loc.Column)
		}
	case msg.Type == tea.KeyEsc:
		w.toggleFocus()
	}
	return nil, true
}

func (w *Workspace) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		w.output, cmd = w.output.Update(msg)
		return cmd
	}
	row := msg.Y - w.outputTop
	if row < 0 || row >= w.output.Height {
		return nil
	}
	if ref, ok := w.log.referenceAt(row+w.output.YOffset, w.refs); ok {
		w.jumpTo(int(ref.Line), int(ref.Column))
	}
	return nil
}

func (w *Workspace) run() tea.Cmd {
	text := w.editor.Value()
	w.log.reset()
	w.diags = nil
	w.diagCursor = 0
	w.runStart = time.Now()
	w.refreshOutput()

	id, err := w.coord.Run(text)
	trace.Point(trace.FromContext(w.ctx), trace.ScopeApp, "ui.run", id.String(), 0)
	if err != nil {
		// LaunchFailure: the observer already published the diagnostic
		w.setStatus(err.Error(), w.st.failure)
		return nil
	}
	w.setStatus("Running "+w.scriptName(), w.st.running)
	return w.spinner.Tick
}

func (w *Workspace) save() tea.Cmd {
	path := w.opts.Path
	if path == "" {
		w.setStatus("No file to save to; start with `scriptpad edit <file>`", w.st.failure)
		return nil
	}
	text := w.editor.Value()
	w.savedText = text
	data := w.opts.Encoding.Denormalize(text)
	return func() tea.Msg {
		return savedMsg{path: path, err: os.WriteFile(path, data, 0o644)}
	}
}

func (w *Workspace) toggleFocus() {
	if w.focus == focusEditor && len(w.diags) > 0 {
		w.focus = focusDiagnostics
		w.editor.Blur()
		return
	}
	w.focus = focusEditor
	w.editor.Focus()
}

func (w *Workspace) jumpTo(line, col int) {
	moveCursor(&w.editor, line, col)
	w.focus = focusEditor
	w.editor.Focus()
}

// Observer methods. The coordinator only publishes for its newest session
// and calls them from inside Update, so no locking is needed.

// OutputAppended implements session.Observer.
func (w *Workspace) OutputAppended(_ session.ID, stream runner.Stream, text string) {
	w.log.append(text, stream == runner.Stderr)
	w.refreshOutput()
}

// ProgressChanged implements session.Observer.
func (w *Workspace) ProgressChanged(_ session.ID, state sprogress.State) {
	w.progress = state
	w.keys.setBusy(state.Busy())
}

// RunFinished implements session.Observer.
func (w *Workspace) RunFinished(_ session.ID, success bool, state session.State) {
	w.progress = sprogress.StateIdle
	w.keys.setBusy(false)

	sess := w.coord.Current()
	switch {
	case state == session.Cancelled:
		w.log.note("[stopped]")
		w.setStatus("Stopped", w.st.neutral)
	case sess != nil && sess.Err != nil:
		w.setStatus(sess.Err.Error(), w.st.failure)
	case success:
		w.setStatus(fmt.Sprintf("Finished with exit code %d", sess.ExitCode), w.st.success)
	default:
		msg := fmt.Sprintf("Finished with exit code %d", sess.ExitCode)
		if sess.TimedOut {
			msg += " (timed out)"
		}
		w.setStatus(msg, w.st.failure)
	}
	w.refreshOutput()
}

// Diagnostics implements session.Observer.
func (w *Workspace) Diagnostics(_ session.ID, diags []locate.Resolved) {
	w.diags = diags
	w.diagCursor = 0
	w.layout()
	if len(diags) > 0 {
		loc := diags[0].Location
		moveCursor(&w.editor, loc.Line, loc.Column)
	}
}

func (w *Workspace) setStatus(text string, sty lipgloss.Style) {
	w.status = text
	w.statusSty = sty
}

func (w *Workspace) scriptName() string {
	if w.opts.ScriptExt == "" {
		return w.opts.ScriptBase
	}
	return w.opts.ScriptBase + "." + w.opts.ScriptExt
}

func (w *Workspace) refreshOutput() {
	atBottom := w.output.AtBottom()
	w.output.SetContent(w.log.render(w.st, w.refs))
	if atBottom {
		w.output.GotoBottom()
	}
}

// layout splits the height between editor, output and diagnostics.
func (w *Workspace) layout() {
	diagRows := 0
	if len(w.diags) > 0 {
		diagRows = min(len(w.diags), maxDiagRows) + 1
	}
	// title, status line, output header, help
	chrome := 4 + diagRows
	avail := max(w.height-chrome, 4)
	outRows := max(avail/3, 2)
	editorRows := max(avail-outRows, 2)

	w.editor.SetWidth(w.width)
	w.editor.SetHeight(editorRows)
	w.output.Width = w.width
	w.output.Height = outRows
	w.bar.Width = max(min(w.width/3, 40), 10)
	w.help.Width = w.width
	w.outputTop = 1 + editorRows + 2
	w.refreshOutput()
}

func (w *Workspace) View() string {
	var b strings.Builder

	title := "scriptpad"
	if w.opts.Path != "" {
		title += " · " + w.opts.Path
	}
	b.WriteString(w.st.title.Render(truncate(title, w.width-4)))
	if w.editor.Value() != w.savedText {
		b.WriteString(w.st.dirty.Render(" [+]"))
	}
	b.WriteString("\n")
	b.WriteString(w.editor.View())
	b.WriteString("\n")
	b.WriteString(w.statusLine())
	b.WriteString("\n")
	b.WriteString(w.st.pane.Render(truncate("── output "+strings.Repeat("─", max(w.width-10, 0)), w.width)))
	b.WriteString("\n")
	b.WriteString(w.output.View())
	b.WriteString("\n")
	if len(w.diags) > 0 {
		b.WriteString(w.diagnosticsView())
	}
	b.WriteString(w.help.View(w.keys))
	return b.String()
}

func (w *Workspace) statusLine() string {
	if !w.progress.Busy() {
		return w.statusSty.Render(truncate(w.status, w.width))
	}
	elapsed := time.Since(w.runStart).Truncate(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s %s", w.spinner.View(), w.st.running.Render(w.status), w.st.neutral.Render(elapsed.String()))
	if w.opts.MaxRuntime > 0 {
		pct := float64(elapsed) / float64(w.opts.MaxRuntime)
		line += " " + w.bar.ViewAs(min(pct, 1))
	}
	return line
}

func (w *Workspace) diagnosticsView() string {
	var b strings.Builder
	header := fmt.Sprintf("── problems (%d) ", len(w.diags))
	hsty := w.st.pane
	if w.focus == focusDiagnostics {
		hsty = w.st.paneFocus
	}
	b.WriteString(hsty.Render(truncate(header+strings.Repeat("─", max(w.width-len(header), 0)), w.width)))
	b.WriteString("\n")

	first := 0
	if w.diagCursor >= maxDiagRows {
		first = w.diagCursor - maxDiagRows + 1
	}
	last := min(first+maxDiagRows, len(w.diags))
	for i := first; i < last; i++ {
		d := w.diags[i]
		sev := w.st.diagError
		if d.Record.Severity == diag.SevWarning {
			sev = w.st.diagWarn
		}
		msg, _, _ := strings.Cut(d.Record.Message, "\n")
		pos := fmt.Sprintf("%d:%d", d.Location.Line, d.Location.Column)
		if !d.Location.Exact {
			pos = "-"
		}
		label := fmt.Sprintf("%-7s", d.Record.Severity.Label())
		rest := truncate(fmt.Sprintf(" %-7s %s", pos, msg), w.width-len(label))
		if i == w.diagCursor && w.focus == focusDiagnostics {
			b.WriteString(w.st.selected.Render(label + rest))
		} else {
			b.WriteString(sev.Render(label) + rest)
		}
		b.WriteString("\n")
	}
	return b.String()
}
