package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseError records a single line that failed to decode. The surrounding
// parse continues past it.
type ParseError struct {
	// Line is the 1-indexed line number within the input.
	Line int
	// Content is the verbatim line text.
	Content string
	// Err is the underlying decode failure.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse transcript at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Offset returns the byte offset within the line where the decoder failed,
// when the underlying error reports one.
func (e *ParseError) Offset() (int64, bool) {
	var syn *json.SyntaxError
	if errors.As(e.Err, &syn) {
		return syn.Offset, true
	}
	var typ *json.UnmarshalTypeError
	if errors.As(e.Err, &typ) {
		return typ.Offset, true
	}
	return 0, false
}

// ParseResult aggregates one whole-transcript parse. Both slices preserve
// input line order and the value is immutable once returned.
type ParseResult struct {
	Entries []Entry
	Errors  []*ParseError
}

// RawEntry pairs a parsed entry with the verbatim JSON text of its source
// line, for coverage validation.
type RawEntry struct {
	Entry Entry
	Raw   string
	Line  int
}

// RawParseResult is ParseResult with raw lines retained for successes.
type RawParseResult struct {
	Entries []RawEntry
	Errors  []*ParseError
}

// ParseLine decodes a single transcript line.
func ParseLine(line string) (Entry, error) {
	return UnmarshalEntry([]byte(line))
}

// Parse decodes every line of a transcript. A malformed line is recorded as
// a ParseError and never stops the parse; empty lines are skipped without
// shifting line numbers.
func Parse(content string) *ParseResult {
	res := &ParseResult{}
	for i, line := range splitLines(content) {
		if line == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, &ParseError{Line: i + 1, Content: line, Err: err})
			continue
		}
		res.Entries = append(res.Entries, entry)
	}
	return res
}

// ParseWithRaw is Parse, additionally retaining each successful line's
// verbatim JSON for the coverage validator.
func ParseWithRaw(content string) *RawParseResult {
	res := &RawParseResult{}
	for i, line := range splitLines(content) {
		if line == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			res.Errors = append(res.Errors, &ParseError{Line: i + 1, Content: line, Err: err})
			continue
		}
		res.Entries = append(res.Entries, RawEntry{Entry: entry, Raw: line, Line: i + 1})
	}
	return res
}

// splitLines splits on LF and drops a trailing CR so CRLF transcripts parse.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// FormatLineForDebug pretty-prints a raw line when it is valid JSON and
// returns it untouched otherwise.
func FormatLineForDebug(line string) string {
	var v any
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return line
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return line
	}
	return string(pretty)
}
