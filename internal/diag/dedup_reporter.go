package diag

// DedupReporter wraps another Reporter and suppresses records identical in
// severity, position and message to one already forwarded.
type DedupReporter struct {
	next Reporter
	seen map[Record]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique records to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[Record]struct{}),
	}
}

func (r *DedupReporter) Report(rec Record) {
	if r == nil {
		return
	}
	if _, ok := r.seen[rec]; ok {
		return
	}
	r.seen[rec] = struct{}{}
	if r.next != nil {
		r.next.Report(rec)
	}
}
