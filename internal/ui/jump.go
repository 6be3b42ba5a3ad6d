package ui

import "github.com/charmbracelet/bubbles/textarea"

// moveCursor places the textarea cursor on the 1-based line and column.
// The textarea only moves one row at a time, so walk there.
func moveCursor(ta *textarea.Model, line, col int) {
	target := max(line-1, 0)
	target = min(target, max(ta.LineCount()-1, 0))

	// guard against soft-wrapped rows that keep Line() unchanged
	for steps := 0; ta.Line() > target && steps < 1<<16; steps++ {
		ta.CursorUp()
	}
	for steps := 0; ta.Line() < target && steps < 1<<16; steps++ {
		ta.CursorDown()
	}
	ta.SetCursor(max(col-1, 0))
}
