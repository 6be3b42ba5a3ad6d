package locate

import (
	"math"
	"testing"

	"scriptpad/internal/diag"
	"scriptpad/internal/source"
)

func TestResolve(t *testing.T) {
	lengths := []int{9, 0, 4}
	cases := []struct {
		name string
		rec  diag.Record
		want Location
	}{
		{"exact", diag.Record{Line: 1, Column: 5}, Location{1, 5, true}},
		{"column after end of line", diag.Record{Line: 1, Column: 10}, Location{1, 10, true}},
		{"column past end clamps", diag.Record{Line: 1, Column: 40}, Location{1, 10, true}},
		{"empty line", diag.Record{Line: 2, Column: 3}, Location{2, 1, true}},
		{"column absent", diag.Record{Line: 3}, Location{3, 1, true}},
		{"line past end clamps", diag.Record{Line: 12, Column: 2}, Location{3, 2, true}},
		{"huge line", diag.Record{Line: math.MaxUint32, Column: math.MaxUint32}, Location{3, 5, true}},
		{"no line", diag.Record{Message: "Segmentation fault"}, Location{1, 1, false}},
		{"no line with column", diag.Record{Column: 7}, Location{1, 1, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.rec, 3, lengths); got != tc.want {
				t.Fatalf("Resolve(%+v) = %+v, want %+v", tc.rec, got, tc.want)
			}
		})
	}
}

func TestResolveAlwaysInBounds(t *testing.T) {
	lengths := []int{0, 3, 12, 1}
	values := []uint32{0, 1, 2, 3, 4, 5, 13, 14, 1000, math.MaxUint32}
	for _, line := range values {
		for _, col := range values {
			for lineCount := -2; lineCount <= 5; lineCount++ {
				loc := Resolve(diag.Record{Line: line, Column: col}, lineCount, lengths)
				maxLine := max(lineCount, 1)
				if loc.Line < 1 || loc.Line > maxLine {
					t.Fatalf("line %d out of [1,%d] for input %d:%d", loc.Line, maxLine, line, col)
				}
				length := 0
				if loc.Line-1 < len(lengths) {
					length = lengths[loc.Line-1]
				}
				if loc.Column < 1 || loc.Column > length+1 {
					t.Fatalf("column %d out of [1,%d] for input %d:%d", loc.Column, length+1, line, col)
				}
			}
		}
	}
}

func TestResolveMissingLengths(t *testing.T) {
	loc := Resolve(diag.Record{Line: 4, Column: 9}, 5, []int{3})
	if loc != (Location{Line: 4, Column: 1, Exact: true}) {
		t.Fatalf("got %+v", loc)
	}
	loc = Resolve(diag.Record{Line: 1, Column: 9}, 1, []int{-4})
	if loc.Column != 1 {
		t.Fatalf("negative length should clamp to column 1, got %+v", loc)
	}
}

func TestResolveAll(t *testing.T) {
	buf := source.NewBuffer("script.kts", "val a = 1\nprintln(foo)\n")
	records := []diag.Record{
		{Severity: diag.SevError, Line: 2, Column: 9, Message: "unresolved reference: foo"},
		{Severity: diag.SevError, Message: "Segmentation fault"},
		{Severity: diag.SevWarning, Line: 3, Column: 4},
	}
	got := ResolveAll(records, buf)
	want := []Location{{2, 9, true}, {1, 1, false}, {3, 1, true}}
	if len(got) != len(want) {
		t.Fatalf("got %d results", len(got))
	}
	for i := range want {
		if got[i].Location != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i].Location, want[i])
		}
		if got[i].Record != records[i] {
			t.Errorf("[%d] record not preserved", i)
		}
	}
	if ResolveAll(nil, buf) != nil {
		t.Fatal("expected nil for no records")
	}
	if loc := ResolveIn(records[0], buf); loc != want[0] {
		t.Fatalf("ResolveIn = %+v", loc)
	}
}
