package diag

// Bag accumulates records in the order they were reported.
// A zero limit means the bag never fills up.
type Bag struct {
	records []Record
	limit   int
	dropped int
}

// NewBag returns an empty Bag holding at most limit records.
func NewBag(limit int) *Bag {
	return &Bag{limit: max(limit, 0)}
}

// Add appends r unless the bag is full; a rejected record is counted in Dropped.
func (b *Bag) Add(r Record) bool {
	if b.limit > 0 && len(b.records) == b.limit {
		b.dropped++
		return false
	}
	b.records = append(b.records, r)
	return true
}

// Len returns the number of kept records.
func (b *Bag) Len() int { return len(b.records) }

// Dropped returns how many records did not fit.
func (b *Bag) Dropped() int { return b.dropped }

// Count returns the number of kept records with the given severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, r := range b.records {
		if r.Severity == sev {
			n++
		}
	}
	return n
}

// Items returns the records; callers must not modify the slice.
func (b *Bag) Items() []Record {
	return b.records
}
