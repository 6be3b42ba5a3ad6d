package source

import "bytes"

// BufferFlags encodes how the buffer text was normalised on the way in.
type BufferFlags uint8

const (
	// BufferHadBOM indicates a UTF-8 byte order mark was stripped.
	BufferHadBOM BufferFlags = 1 << iota
	// BufferNormalizedCRLF indicates \r\n line endings were rewritten to \n.
	BufferNormalizedCRLF
)

// Denormalize turns editor text back into file bytes, undoing what NewBuffer
// or Load folded away: \n becomes \r\n and the BOM is put back.
func (f BufferFlags) Denormalize(text string) []byte {
	content := []byte(text)
	if f&BufferNormalizedCRLF != 0 {
		// сначала складываем уже имеющиеся \r\n, чтобы не получить \r\r\n
		content, _ = normalizeCRLF(content)
		content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if f&BufferHadBOM != 0 {
		content = append(append([]byte{}, utf8BOM...), content...)
	}
	return content
}
