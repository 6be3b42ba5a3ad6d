package diag

// Reporter: минимальный контракт получения записей от парсера.
// Реализации: BagReporter (кладёт в Bag), DedupReporter (фильтр дублей).
type Reporter interface {
	Report(r Record)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(rec Record) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(rec)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Record)

func (f ReporterFunc) Report(rec Record) {
	if f != nil {
		f(rec)
	}
}
