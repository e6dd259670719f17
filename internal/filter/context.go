package filter

import (
	"strings"

	"fimcorpus/internal/split"
)

// contextPhase is Phase 1: context adequacy. A fair example needs real
// code on both sides of the gap, and a prefix that starts on a complete
// line rather than deep inside a block.
type contextPhase struct{}

func (contextPhase) Name() string { return "context" }

func (contextPhase) Evaluate(c *split.Candidate) (Verdict, *split.Candidate) {
	if c.Middle == "" {
		return Reject(ReasonEmptyContext, "middle"), c
	}
	if isBlankOrComments(c.Prefix) {
		return Reject(ReasonEmptyContext, "prefix"), c
	}
	if isBlankOrComments(c.Suffix) {
		return Reject(ReasonEmptyContext, "suffix"), c
	}
	if startsMidBlock(c.Prefix) {
		return Reject(ReasonWeakContext, "prefix starts mid-block"), c
	}
	return Accept(), c
}

// isBlankOrComments reports whether text carries no code at all.
func isBlankOrComments(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*") ||
			strings.HasPrefix(s, "*") || strings.HasPrefix(s, "*/") {
			continue
		}
		return false
	}
	return true
}

// startsMidBlock flags prefixes whose first line is indented more than one
// level: the window opens in the middle of a block the model cannot see.
func startsMidBlock(prefix string) bool {
	line, _, _ := strings.Cut(prefix, "\n")
	if strings.TrimSpace(line) == "" {
		return false
	}
	indent := 0
	for _, r := range line {
		if r == ' ' {
			indent++
		} else if r == '\t' {
			indent += 4
		} else {
			break
		}
	}
	return indent > 4
}
