// Package locate maps parsed diagnostics onto positions that are valid in
// the editor buffer.
package locate

import (
	"scriptpad/internal/diag"
	"scriptpad/internal/source"
)

// Location is a clamped, buffer-valid 1-based position.
type Location struct {
	Line   int
	Column int
	// Exact is false when the record carried no line and the buffer start
	// was used instead.
	Exact bool
}

// Resolved pairs a record with its editor location.
type Resolved struct {
	Record   diag.Record
	Location Location
}

// Resolve clamps the record's line to [1, lineCount] and its column to
// [1, lineLengths[line-1]+1]. A record without a line resolves to 1:1.
// Missing entries in lineLengths count as empty lines.
func Resolve(rec diag.Record, lineCount int, lineLengths []int) Location {
	if lineCount < 1 {
		lineCount = 1
	}
	if !rec.HasLine() {
		return Location{Line: 1, Column: 1}
	}

	line := clamp(int64(rec.Line), 1, int64(lineCount))
	length := 0
	if int(line-1) < len(lineLengths) {
		length = max(lineLengths[line-1], 0)
	}
	// колонка 0 означает «не указана», то есть начало строки
	col := clamp(int64(rec.Column), 1, int64(length)+1)
	return Location{Line: int(line), Column: int(col), Exact: true}
}

// ResolveIn resolves against a buffer snapshot.
func ResolveIn(rec diag.Record, buf *source.Buffer) Location {
	return Resolve(rec, buf.LineCount(), buf.LineLengths())
}

// ResolveAll resolves every record against the buffer, preserving order.
func ResolveAll(records []diag.Record, buf *source.Buffer) []Resolved {
	if len(records) == 0 {
		return nil
	}
	count := buf.LineCount()
	lengths := buf.LineLengths()
	out := make([]Resolved, len(records))
	for i, rec := range records {
		out[i] = Resolved{Record: rec, Location: Resolve(rec, count, lengths)}
	}
	return out
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
