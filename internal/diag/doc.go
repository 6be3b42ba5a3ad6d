// Package diag defines the diagnostic model shared by the parser, the
// location mapper and the renderers.
//
// # Data model
//
// Record is the central value. It carries:
//
//   - Severity – Warning or Error, the two words interpreters print.
//   - Path – the file name the interpreter reported (informational only; the
//     editor always has a single buffer).
//   - Line, Column – 1-based positions as reported, 0 when absent.
//   - Message – free text, continuation lines joined with '\n'.
//
// Records are plain values and never mutated after the parser emits them, so
// they can be compared, used as map keys and shared between goroutines.
//
// # Emitting
//
// Producers write through a Reporter. BagReporter collects into a Bag in
// stderr order, optionally capped. DedupReporter filters duplicates on the way
// in.
//
// Package diag does no parsing, formatting or IO. Parsing lives in
// internal/diagparse, rendering in internal/diagfmt.
package diag
