// Package observ renders phase timings of a run for humans and machines.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// PhaseReport is one timed phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report собирает фазы в порядке добавления.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Add appends a phase and updates the total.
func (r *Report) Add(name string, dur time.Duration, note string) {
	ms := durationToMillis(dur)
	r.Phases = append(r.Phases, PhaseReport{Name: name, DurationMS: ms, Note: note})
	r.TotalMS += ms
}

// Summary returns the aligned text form printed by `run --timings`.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-10s %9.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-10s %9.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
