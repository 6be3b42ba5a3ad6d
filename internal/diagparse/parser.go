package diagparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scriptpad/internal/diag"
)

var (
	headerPattern   = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:[ \t]*([A-Za-z]+):[ \t]?(.*)$`)
	prefixedPattern = regexp.MustCompile(`^([ewEW]):[ \t]+(.+?):(\d+):(\d+)[ \t]+(.*)$`)
)

// Parser recognises diagnostic headers. The zero value accepts "error" and
// "warning" for any path.
type Parser struct {
	// Severities overrides the severity vocabulary. Keys are matched
	// case-insensitively.
	Severities map[string]diag.Severity
	// PathFilter, when set, rejects headers whose path it returns false for;
	// such lines are treated as continuation text.
	PathFilter func(path string) bool
}

// Default is the parser used by Parse and ParseResult.
var Default = &Parser{}

// Parse extracts records from stderr using the default parser.
func Parse(stderr string) []diag.Record {
	return Default.Parse(stderr)
}

// ParseResult parses stderr and, when exitCode reports failure and no header
// was recognised, returns a single synthetic record so the failure is never
// dropped.
func ParseResult(stderr string, exitCode int) []diag.Record {
	return Default.ParseResult(stderr, exitCode)
}

// Parse extracts records from stderr.
func (p *Parser) Parse(stderr string) []diag.Record {
	bag := diag.NewBag(0)
	p.ParseInto(stderr, diag.BagReporter{Bag: bag})
	if bag.Len() == 0 {
		return nil
	}
	return bag.Items()
}

// ParseResult is Parse plus the unstructured-failure fallback.
func (p *Parser) ParseResult(stderr string, exitCode int) []diag.Record {
	records := p.Parse(stderr)
	if len(records) > 0 || exitCode == 0 {
		return records
	}
	return []diag.Record{Unstructured(stderr, exitCode)}
}

// ParseInto reports every record to r and returns how many headers were seen
// together with the noise that preceded the first header.
func (p *Parser) ParseInto(stderr string, r diag.Reporter) (int, string) {
	var (
		count   int
		current *diag.Record
		body    []string
		noise   []string
	)
	flush := func() {
		if current == nil {
			return
		}
		rec := *current
		rec.Message = joinMessage(body)
		r.Report(rec)
		current = nil
		body = nil
	}

	for _, line := range splitLines(stderr) {
		rec, msg, ok := p.header(line)
		if !ok {
			if current == nil {
				noise = append(noise, line)
			} else {
				body = append(body, line)
			}
			continue
		}
		flush()
		count++
		current = &rec
		body = []string{msg}
	}
	flush()
	return count, strings.TrimSpace(strings.Join(noise, "\n"))
}

// Unstructured builds the fallback record for a failed run whose stderr had no
// recognisable header.
func Unstructured(stderr string, exitCode int) diag.Record {
	msg := strings.TrimSpace(norm.NFC.String(strings.ReplaceAll(stderr, "\r\n", "\n")))
	if msg == "" {
		msg = fmt.Sprintf("process exited with status %d", exitCode)
	}
	return diag.Record{Severity: diag.SevError, Message: msg}
}

func (p *Parser) header(line string) (diag.Record, string, bool) {
	if m := headerPattern.FindStringSubmatch(line); m != nil {
		sev, ok := p.severity(m[4])
		if !ok || !p.acceptPath(m[1]) {
			return diag.Record{}, "", false
		}
		return diag.Record{
			Severity: sev,
			Path:     m[1],
			Line:     parseUint(m[2]),
			Column:   parseUint(m[3]),
		}, m[5], true
	}
	if m := prefixedPattern.FindStringSubmatch(line); m != nil {
		if !p.acceptPath(m[2]) {
			return diag.Record{}, "", false
		}
		sev := diag.SevError
		if strings.EqualFold(m[1], "w") {
			sev = diag.SevWarning
		}
		return diag.Record{
			Severity: sev,
			Path:     m[2],
			Line:     parseUint(m[3]),
			Column:   parseUint(m[4]),
		}, m[5], true
	}
	return diag.Record{}, "", false
}

func (p *Parser) severity(word string) (diag.Severity, bool) {
	if len(p.Severities) == 0 {
		return diag.ParseSeverity(word)
	}
	for k, v := range p.Severities {
		if strings.EqualFold(k, word) {
			return v, true
		}
	}
	return 0, false
}

func (p *Parser) acceptPath(path string) bool {
	return p.PathFilter == nil || p.PathFilter(path)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func joinMessage(lines []string) string {
	// хвостовые пустые строки не несут смысла
	for len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	msg := strings.Join(lines, "\n")
	return norm.NFC.String(strings.TrimRight(msg, " \t"))
}

func parseUint(s string) uint32 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return math.MaxUint32
	}
	return uint32(v)
}
