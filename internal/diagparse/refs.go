package diagparse

import (
	"regexp"
)

// Reference is a file location mentioned anywhere in interpreter output, for
// example a stack frame "at Script.main(script.kts:3)".
type Reference struct {
	Start, End int // byte range of the match within the scanned text
	Line       uint32
	Column     uint32 // 0 when the text carried no column
}

// ReferenceMatcher finds references to one script file inside free text.
type ReferenceMatcher struct {
	re *regexp.Regexp
}

// NewReferenceMatcher matches "<basename>[.<ext>]:<line>[:<col>]".
func NewReferenceMatcher(basename, ext string) *ReferenceMatcher {
	pattern := regexp.QuoteMeta(basename)
	if ext != "" {
		pattern += `(?:\.` + regexp.QuoteMeta(ext) + `)?`
	}
	pattern += `:(\d+)(?::(\d+))?`
	return &ReferenceMatcher{re: regexp.MustCompile(pattern)}
}

// Find returns every reference in text, in order.
func (m *ReferenceMatcher) Find(text string) []Reference {
	if m == nil || m.re == nil {
		return nil
	}
	matches := m.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]Reference, 0, len(matches))
	for _, idx := range matches {
		ref := Reference{Start: idx[0], End: idx[1], Line: parseUint(text[idx[2]:idx[3]])}
		if idx[4] >= 0 {
			ref.Column = parseUint(text[idx[4]:idx[5]])
		}
		refs = append(refs, ref)
	}
	return refs
}
