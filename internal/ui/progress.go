package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	sprogress "scriptpad/internal/progress"
)

// RunUpdate feeds the headless run view. Exactly one of Progress and Text
// is set.
type RunUpdate struct {
	Progress *sprogress.Event
	Text     string
	Stderr   bool
}

// tailLines is how much output the run view keeps on screen.
const tailLines = 8

type progressModel struct {
	title      string
	maxRuntime time.Duration
	updates    <-chan RunUpdate
	spinner    spinner.Model
	prog       progress.Model
	log        outputLog
	st         styles
	status     sprogress.Status
	elapsed    time.Duration
	exitCode   int
	width      int
	done       bool
}

type updateMsg RunUpdate
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows a running script:
// spinner, elapsed time, a bar filling towards maxRuntime (when set) and the
// tail of its output. It quits once updates is closed.
func NewProgressModel(title string, maxRuntime time.Duration, updates <-chan RunUpdate) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:      title,
		maxRuntime: maxRuntime,
		updates:    updates,
		spinner:    sp,
		prog:       prog,
		st:         newStyles("dark"),
		width:      80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForUpdate())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		cmd := m.apply(RunUpdate(msg))
		return m, tea.Batch(cmd, m.listenForUpdate())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	header := m.title
	if label := statusLabel(m.status, m.exitCode); label != "" {
		header += " (" + label + ", " + m.elapsed.Truncate(100*time.Millisecond).String() + ")"
	}
	mark := m.spinner.View()
	if m.done {
		mark = "done:"
	}
	rows := []string{m.statusStyle().Render(truncate(mark+" "+header, m.width)), ""}

	tail := m.log.lines[max(len(m.log.lines)-tailLines, 0):]
	for _, line := range tail {
		sty := m.st.stdout
		if line.stderr {
			sty = m.st.stderr
		}
		rows = append(rows, sty.Render("  "+truncate(line.text, m.width-4)))
	}

	if m.maxRuntime > 0 {
		bar := m.prog.View()
		if m.done {
			bar = m.prog.ViewAs(1)
		}
		rows = append(rows, "", bar)
	}
	return strings.Join(rows, "\n") + "\n"
}

func (m *progressModel) listenForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(u)
	}
}

func (m *progressModel) apply(u RunUpdate) tea.Cmd {
	if u.Progress == nil {
		m.log.append(u.Text, u.Stderr)
		return nil
	}
	ev := *u.Progress
	m.status = ev.Status
	m.elapsed = ev.Elapsed
	if ev.Status == sprogress.StatusFinished {
		m.exitCode = ev.ExitCode
		return m.prog.SetPercent(1)
	}
	if m.maxRuntime > 0 {
		return m.prog.SetPercent(min(float64(ev.Elapsed)/float64(m.maxRuntime), 1))
	}
	return nil
}

func statusLabel(status sprogress.Status, exitCode int) string {
	switch status {
	case sprogress.StatusStarted:
		return "starting"
	case sprogress.StatusRunning:
		return "running"
	case sprogress.StatusFinished:
		return fmt.Sprintf("exit %d", exitCode)
	default:
		return ""
	}
}

func (m *progressModel) statusStyle() lipgloss.Style {
	switch m.status {
	case sprogress.StatusFinished:
		if m.exitCode == 0 {
			return m.st.success
		}
		return m.st.failure
	case sprogress.StatusStarted, sprogress.StatusRunning:
		return m.st.running
	default:
		return m.st.neutral.Bold(true)
	}
}

// truncate cuts value to width display cells, marking the cut with "..."
// when there is room for it. A non-positive width disables the cut.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
