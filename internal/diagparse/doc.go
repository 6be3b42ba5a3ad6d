// Package diagparse turns interpreter stderr into diag.Records.
//
// A diagnostic starts with a header line
//
//	<path>:<line>[:<column>]: <severity>: <message>
//
// where severity is "error" or "warning" in any case. kotlinc's prefixed form
//
//	e: <path>:<line>:<column> <message>
//	w: <path>:<line>:<column> <message>
//
// is accepted as well. Every following line that is not itself a header is a
// continuation and is appended to the previous message. Lines before the first
// header are noise; they only matter when the process failed without a single
// header, in which case ParseResult turns them into one synthetic record with
// no position.
//
// Parsing is purely textual. The same input always yields the same records.
package diagparse
