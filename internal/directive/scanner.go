// Package directive tracks C-family conditional-compilation directives.
// It only classifies nesting structure (#if/#ifdef/#ifndef/#elif/#else/
// #endif); conditions are carried as opaque text and never evaluated.
package directive

import (
	"bytes"
	"strings"
)

// Kind identifies a conditional directive.
type Kind int

const (
	If Kind = iota
	Ifdef
	Ifndef
	Elif
	Else
	Endif
)

func (k Kind) String() string {
	switch k {
	case If:
		return "#if"
	case Ifdef:
		return "#ifdef"
	case Ifndef:
		return "#ifndef"
	case Elif:
		return "#elif"
	case Else:
		return "#else"
	case Endif:
		return "#endif"
	}
	return "#?"
}

// Event is one conditional directive found while scanning a file.
type Event struct {
	Offset    int // byte offset of the line start
	Line      int // 1-based line number
	Kind      Kind
	Condition string
}

// Warning records a malformed directive that was skipped for stack
// purposes. Warnings never fail a candidate.
type Warning struct {
	Line   int
	Text   string
	Reason string
}

// Scan walks text from offset 0 up to limit (exclusive) and emits
// conditional directive events in order. Lines whose directive syntax is
// malformed produce a warning and no event.
func Scan(text []byte, limit int) ([]Event, []Warning) {
	if limit > len(text) {
		limit = len(text)
	}

	var events []Event
	var warnings []Warning

	offset := 0
	line := 0
	for offset < limit {
		line++
		end := bytes.IndexByte(text[offset:], '\n')
		var raw []byte
		if end < 0 {
			raw = text[offset:limit]
			end = len(text) - offset
		} else if offset+end > limit {
			raw = text[offset:limit]
		} else {
			raw = text[offset : offset+end]
		}

		if ev, warn, ok := parseLine(raw, offset, line); ok {
			if warn != nil {
				warnings = append(warnings, *warn)
			} else {
				events = append(events, ev)
			}
		}

		offset += end + 1
	}

	return events, warnings
}

// parseLine classifies a single line. ok is false when the line is not a
// conditional directive at all (including #include, #define and friends).
func parseLine(raw []byte, offset, line int) (Event, *Warning, bool) {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "#") {
		return Event{}, nil, false
	}

	body := strings.TrimSpace(strings.TrimPrefix(s, "#"))
	word := body
	rest := ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		word = body[:i]
		rest = strings.TrimSpace(body[i+1:])
	}
	rest = stripComment(rest)

	var kind Kind
	switch word {
	case "if":
		kind = If
	case "ifdef":
		kind = Ifdef
	case "ifndef":
		kind = Ifndef
	case "elif":
		kind = Elif
	case "else":
		kind = Else
	case "endif":
		kind = Endif
	default:
		return Event{}, nil, false
	}

	switch kind {
	case If, Elif:
		if rest == "" {
			return Event{}, &Warning{Line: line, Text: s, Reason: "missing condition"}, true
		}
	case Ifdef, Ifndef:
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return Event{}, &Warning{Line: line, Text: s, Reason: "expected a single macro name"}, true
		}
	case Else, Endif:
		if rest != "" {
			return Event{}, &Warning{Line: line, Text: s, Reason: "stray tokens after directive"}, true
		}
	}

	return Event{Offset: offset, Line: line, Kind: kind, Condition: rest}, nil, true
}

// stripComment drops a trailing // or /* comment from a directive tail.
func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "/*"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
