package diag

import "testing"

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Record{Severity: SevWarning, Line: 3, Message: "w"}) {
		t.Fatal("first Add should succeed")
	}
	bag.Add(Record{Severity: SevError, Line: 1, Message: "e"})
	if bag.Add(Record{Severity: SevError, Line: 9}) {
		t.Fatal("Add past the limit should fail")
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("Len() = %d, Dropped() = %d; want 2, 1", bag.Len(), bag.Dropped())
	}
	if bag.Count(SevError) != 1 || bag.Count(SevWarning) != 1 {
		t.Fatalf("Count = %d errors, %d warnings", bag.Count(SevError), bag.Count(SevWarning))
	}
}

func TestBagKeepsReportOrder(t *testing.T) {
	bag := NewBag(0)
	rep := BagReporter{Bag: bag}
	rep.Report(Record{Severity: SevWarning, Line: 7, Message: "b"})
	rep.Report(Record{Severity: SevError, Line: 3, Message: "a"})

	items := bag.Items()
	if len(items) != 2 || items[0].Line != 7 || items[1].Line != 3 {
		t.Fatalf("items = %+v, want lines 7 then 3", items)
	}
}

func TestDedupReporter(t *testing.T) {
	var got []Record
	r := NewDedupReporter(ReporterFunc(func(rec Record) { got = append(got, rec) }))
	rec := Record{Severity: SevError, Path: "script.kts", Line: 1, Column: 1, Message: "x"}
	r.Report(rec)
	r.Report(rec)
	r.Report(Record{Severity: SevError, Path: "script.kts", Line: 2, Column: 1, Message: "x"})
	if len(got) != 2 {
		t.Fatalf("forwarded %d records, want 2", len(got))
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"error": SevError, "ERROR": SevError, "Warning": SevWarning, " warning ": SevWarning}
	for in, want := range cases {
		got, ok := ParseSeverity(in)
		if !ok || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseSeverity("info"); ok {
		t.Error("info should not be accepted")
	}
}

func TestFormatShort(t *testing.T) {
	records := []Record{
		{Severity: SevError, Path: "./script.kts", Line: 3, Column: 5, Message: "unresolved reference: foo\n  more detail"},
		{Severity: SevError, Message: "Segmentation fault"},
	}
	want := "error script.kts:3:5 unresolved reference: foo more detail\n" +
		"error -:0:0 Segmentation fault"
	if got := FormatShort(records); got != want {
		t.Fatalf("FormatShort:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestRecordString(t *testing.T) {
	cases := []struct {
		rec  Record
		want string
	}{
		{Record{Severity: SevError, Path: "s.kts", Line: 3, Column: 5, Message: "m"}, "s.kts:3:5: error: m"},
		{Record{Severity: SevWarning, Path: "s.kts", Line: 7, Message: "m"}, "s.kts:7: warning: m"},
		{Record{Severity: SevError, Message: "boom"}, "error: boom"},
	}
	for _, tc := range cases {
		if got := tc.rec.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
	if !(Record{Severity: SevError, Message: "boom"}).Synthetic() {
		t.Error("record without path and line should be synthetic")
	}
}
