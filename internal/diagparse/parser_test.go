package diagparse

import (
	"reflect"
	"strings"
	"testing"

	"scriptpad/internal/diag"
)

func TestParseExample(t *testing.T) {
	stderr := "script.kts:3:5: error: unresolved reference: foo\n  more detail\nscript.kts:7:1: warning: unused variable\n"
	got := Parse(stderr)
	want := []diag.Record{
		{Severity: diag.SevError, Path: "script.kts", Line: 3, Column: 5, Message: "unresolved reference: foo\n  more detail"},
		{Severity: diag.SevWarning, Path: "script.kts", Line: 7, Column: 1, Message: "unused variable"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse():\n got %#v\nwant %#v", got, want)
	}
}

func TestParseResultUnstructured(t *testing.T) {
	got := ParseResult("Segmentation fault\n", 1)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	rec := got[0]
	if rec.HasLine() || rec.Column != 0 {
		t.Errorf("synthetic record should have no position, got %+v", rec)
	}
	if rec.Message != "Segmentation fault" || rec.Severity != diag.SevError {
		t.Errorf("unexpected synthetic record %+v", rec)
	}
}

func TestParseResultCases(t *testing.T) {
	cases := []struct {
		name   string
		stderr string
		exit   int
		want   int
		msg    string
	}{
		{"success no stderr", "", 0, 0, ""},
		{"success with noise", "Picked up JAVA_TOOL_OPTIONS\n", 0, 0, ""},
		{"failure empty stderr", "", 3, 1, "process exited with status 3"},
		{"failure noise only", "Exception in thread \"main\"\n\tat Foo.bar\n", 1, 1, "Exception in thread \"main\"\n\tat Foo.bar"},
		{"failure with headers ignores noise", "warming up\nscript.kts:1:1: error: boom\n", 1, 1, "boom"},
		{"success with warning", "script.kts:2:3: warning: unused\n", 0, 1, "unused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseResult(tc.stderr, tc.exit)
			if len(got) != tc.want {
				t.Fatalf("got %d records (%v), want %d", len(got), got, tc.want)
			}
			if tc.want > 0 && got[0].Message != tc.msg {
				t.Fatalf("message = %q, want %q", got[0].Message, tc.msg)
			}
		})
	}
}

func TestParseHeaderCount(t *testing.T) {
	var b strings.Builder
	const n = 25
	for i := 1; i <= n; i++ {
		b.WriteString("script.kts:")
		b.WriteString(strings.Repeat("1", 1+i%3))
		b.WriteString(": ERROR: m\n")
		if i%2 == 0 {
			b.WriteString("   continuation a\n   continuation b\n")
		}
	}
	got := Parse(b.String())
	if len(got) != n {
		t.Fatalf("got %d records, want %d", len(got), n)
	}
	for i, rec := range got {
		hasCont := (i+1)%2 == 0
		if hasCont && rec.Message != "m\n   continuation a\n   continuation b" {
			t.Fatalf("record %d message %q", i, rec.Message)
		}
		if !hasCont && rec.Message != "m" {
			t.Fatalf("record %d message %q", i, rec.Message)
		}
		if rec.Column != 0 {
			t.Fatalf("record %d column %d, want absent", i, rec.Column)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"noise\nscript.kts:3:5: error: a\nb\n\nscript.kts:4: Warning: c\n",
		"e: /tmp/x/script.kts:2:9 Unresolved reference: foo\nw: /tmp/x/script.kts:1:5 Variable 'a' is never used\n",
	}
	for _, in := range inputs {
		first := Parse(in)
		second := Parse(in)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Parse(%q) not idempotent:\n%#v\n%#v", in, first, second)
		}
	}
}

func TestParseVariants(t *testing.T) {
	cases := []struct {
		name string
		line string
		want diag.Record
		ok   bool
	}{
		{"no column", "script.kts:4: warning: c", diag.Record{Severity: diag.SevWarning, Path: "script.kts", Line: 4, Message: "c"}, true},
		{"upper case", "script.kts:1:2: ERROR: x", diag.Record{Severity: diag.SevError, Path: "script.kts", Line: 1, Column: 2, Message: "x"}, true},
		{"windows path", `C:\work\script.kts:10:2: error: x`, diag.Record{Severity: diag.SevError, Path: `C:\work\script.kts`, Line: 10, Column: 2, Message: "x"}, true},
		{"kotlinc prefixed", "e: file:///tmp/script.kts:2:9 Unresolved reference: foo", diag.Record{Severity: diag.SevError, Path: "file:///tmp/script.kts", Line: 2, Column: 9, Message: "Unresolved reference: foo"}, true},
		{"kotlinc warning", "w: script.kts:1:5 unused", diag.Record{Severity: diag.SevWarning, Path: "script.kts", Line: 1, Column: 5, Message: "unused"}, true},
		{"unknown severity", "script.kts:1:2: info: x", diag.Record{}, false},
		{"no severity", "script.kts:1:2 something", diag.Record{}, false},
		{"huge line", "script.kts:99999999999:1: error: x", diag.Record{Severity: diag.SevError, Path: "script.kts", Line: 4294967295, Column: 1, Message: "x"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.line + "\n")
			if !tc.ok {
				if len(got) != 0 {
					t.Fatalf("expected no records, got %#v", got)
				}
				return
			}
			if len(got) != 1 || !reflect.DeepEqual(got[0], tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestParseCRLFAndTrailingBlank(t *testing.T) {
	got := Parse("script.kts:1:1: error: a\r\n  b\r\n\r\n\r\n")
	if len(got) != 1 || got[0].Message != "a\n  b" {
		t.Fatalf("got %#v", got)
	}
}

func TestParserVocabularyAndFilter(t *testing.T) {
	p := &Parser{
		Severities: map[string]diag.Severity{"fatal": diag.SevError, "lint": diag.SevWarning},
		PathFilter: func(path string) bool { return strings.HasSuffix(path, "script.kts") },
	}
	stderr := "script.kts:1:1: fatal: a\nother.kts:2:2: fatal: b\nscript.kts:3:1: error: c\nscript.kts:4:1: LINT: d\n"
	got := p.Parse(stderr)
	if len(got) != 2 {
		t.Fatalf("got %d records: %#v", len(got), got)
	}
	if got[0].Message != "a\nother.kts:2:2: fatal: b\nscript.kts:3:1: error: c" {
		t.Fatalf("rejected headers should become continuation text, got %q", got[0].Message)
	}
	if got[1].Severity != diag.SevWarning || got[1].Line != 4 {
		t.Fatalf("got %#v", got[1])
	}
}

func TestParseIntoNoise(t *testing.T) {
	n, noise := Default.ParseInto("warming up\n  jvm\nscript.kts:1:1: error: x\n", diag.ReporterFunc(func(diag.Record) {}))
	if n != 1 || noise != "warming up\n  jvm" {
		t.Fatalf("ParseInto = %d, %q", n, noise)
	}
}

func TestParseNormalizesMessages(t *testing.T) {
	// "é" written as e + combining acute accent
	got := Parse("script.kts:1:1: error: caf\u0065\u0301\n")
	if len(got) != 1 || got[0].Message != "caf\u00e9" {
		t.Fatalf("got %q", got[0].Message)
	}
}

func TestReferenceMatcher(t *testing.T) {
	m := NewReferenceMatcher("script", "kts")
	text := "Exception\n\tat Script.main(script.kts:3)\n\tat x(script:7:2)\n"
	refs := m.Find(text)
	if len(refs) != 2 {
		t.Fatalf("got %d refs", len(refs))
	}
	if refs[0].Line != 3 || refs[0].Column != 0 || text[refs[0].Start:refs[0].End] != "script.kts:3" {
		t.Fatalf("refs[0] = %+v", refs[0])
	}
	if refs[1].Line != 7 || refs[1].Column != 2 {
		t.Fatalf("refs[1] = %+v", refs[1])
	}
	if NewReferenceMatcher("script", "kts").Find("nothing here") != nil {
		t.Fatal("expected nil for no matches")
	}
}
