package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scriptpad/internal/diag"
	"scriptpad/internal/locate"
	"scriptpad/internal/source"
)

type palette struct {
	err     func(a ...any) string
	warn    func(a ...any) string
	gutter  func(a ...any) string
	caret   func(a ...any) string
	message func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:     mk(color.FgRed, color.Bold),
		warn:    mk(color.FgYellow, color.Bold),
		gutter:  mk(color.FgCyan),
		caret:   mk(color.FgGreen, color.Bold),
		message: mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) string {
	if sev == diag.SevWarning {
		return p.warn(sev.String())
	}
	return p.err(sev.String())
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой печатает
//
//	<path>:<line>:<col>: <SEV>: <first message line>
//
// затем контекст строки с кареткой под колонкой и оставшиеся строки
// сообщения. Diagnostics without a reported line get no snippet.
func Pretty(w io.Writer, diags []locate.Resolved, buf *source.Buffer, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, p, d, buf, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, p palette, d locate.Resolved, buf *source.Buffer, opts PrettyOpts) error {
	var sb strings.Builder

	head, rest, _ := strings.Cut(d.Record.Message, "\n")
	path := displayPath(d, buf, opts.PathMode)
	if d.Location.Exact {
		fmt.Fprintf(&sb, "%s:%d:%d: ", path, d.Location.Line, d.Location.Column)
	} else {
		fmt.Fprintf(&sb, "%s: ", path)
	}
	sb.WriteString(p.severity(d.Record.Severity))
	sb.WriteString(": ")
	sb.WriteString(p.message(truncate(head, opts.Width)))
	sb.WriteString("\n")

	if d.Location.Exact && buf != nil {
		writeSnippet(&sb, p, d.Location, buf, opts)
	}

	if rest != "" {
		for _, line := range strings.Split(rest, "\n") {
			sb.WriteString(p.gutter("  = "))
			sb.WriteString(truncate(line, opts.Width))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSnippet(sb *strings.Builder, p palette, loc locate.Location, buf *source.Buffer, opts PrettyOpts) {
	ctx := max(opts.Context, 0)
	first := max(loc.Line-ctx, 1)
	last := min(loc.Line+ctx, buf.LineCount())
	width := len(fmt.Sprint(last))

	blank := strings.Repeat(" ", width)
	for n := first; n <= last; n++ {
		text := buf.Line(n)
		fmt.Fprintf(sb, "%s %s %s\n", p.gutter(fmt.Sprintf("%*d", width, n)), p.gutter("|"), truncate(text, opts.Width))
		if n == loc.Line {
			fmt.Fprintf(sb, "%s %s %s%s\n", blank, p.gutter("|"), caretPadding(text, loc.Column), p.caret("^"))
		}
	}
}

// caretPadding returns the whitespace that puts a caret under the 1-based
// rune column of line. Tabs are kept so the terminal expands them the same
// way, wide runes count double.
func caretPadding(line string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		i++
	}
	return sb.String()
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Summary returns e.g. "2 errors, 1 warning".
func Summary(diags []locate.Resolved) string {
	var errs, warns int
	for _, d := range diags {
		if d.Record.Severity == diag.SevWarning {
			warns++
		} else {
			errs++
		}
	}
	return fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
