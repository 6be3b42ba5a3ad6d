package diagfmt

import (
	"encoding/json"
	"io"

	"scriptpad/internal/locate"
	"scriptpad/internal/source"
)

// LocationJSON представляет местоположение в буфере для JSON
type LocationJSON struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Exact  bool   `json:"exact"`
	// Reported position before clamping, omitted when absent.
	ReportedLine   uint32 `json:"reported_line,omitempty"`
	ReportedColumn uint32 `json:"reported_column,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Source   string       `json:"source,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []locate.Resolved, buf *source.Buffer, opts JSONOpts) DiagnosticsOutput {
	limit := len(diags)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	out := make([]DiagnosticJSON, 0, limit)
	for _, d := range diags[:limit] {
		item := DiagnosticJSON{
			Severity: d.Record.Severity.Label(),
			Message:  d.Record.Message,
			Location: LocationJSON{
				File:           displayPath(d, buf, opts.PathMode),
				Line:           d.Location.Line,
				Column:         d.Location.Column,
				Exact:          d.Location.Exact,
				ReportedLine:   d.Record.Line,
				ReportedColumn: d.Record.Column,
			},
		}
		if opts.IncludeSource && d.Location.Exact && buf != nil {
			item.Source = buf.Line(d.Location.Line)
		}
		out = append(out, item)
	}

	return DiagnosticsOutput{
		Diagnostics: out,
		Count:       len(out),
	}
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, diags []locate.Resolved, buf *source.Buffer, opts JSONOpts) error {
	return writeJSON(w, BuildDiagnosticsOutput(diags, buf, opts))
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
