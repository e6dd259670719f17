package filter

import (
	"strings"
	"unicode"

	"fimcorpus/internal/lang"
	"fimcorpus/internal/split"
)

// contentPhase is Phase 2: the middle must be worth completing. Generic
// triviality checks run first; anything that survives them is handed to
// the per-language strategy.
type contentPhase struct{}

func (contentPhase) Name() string { return "content" }

func (contentPhase) Evaluate(c *split.Candidate) (Verdict, *split.Candidate) {
	m := strings.TrimSpace(c.Middle)

	if !hasNontrivialToken(m) {
		return Reject(ReasonTrivialMiddle, "punctuation only"), c
	}
	if isClosersOnly(m) {
		return Reject(ReasonTrivialMiddle, "closing braces only"), c
	}
	if mostlyWhitespace(c.Middle) {
		return Reject(ReasonTrivialMiddle, "mostly whitespace"), c
	}
	if duplicatesNeighbor(m, c.Prefix, c.Suffix) {
		return Reject(ReasonTrivialMiddle, "verbatim neighbor copy"), c
	}
	if !lang.ForLanguage(c.File.Language).MeaningfulMiddle(c.Middle) {
		return Reject(ReasonTrivialMiddle, "language heuristic"), c
	}
	return Accept(), c
}

// hasNontrivialToken requires at least one word-like run of two or more
// characters beyond punctuation and whitespace.
func hasNontrivialToken(s string) bool {
	run := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			run++
			if run >= 2 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func isClosersOnly(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		switch r {
		case '}', ')', ']', ';', ',', '.', '{', '(', '[':
		default:
			if !unicode.IsSpace(r) {
				return false
			}
		}
	}
	return true
}

// mostlyWhitespace flags middles that are over 70% whitespace.
func mostlyWhitespace(middle string) bool {
	total, solid := 0, 0
	for _, r := range middle {
		total++
		if !unicode.IsSpace(r) {
			solid++
		}
	}
	return total > 0 && solid*10 < total*3
}

// duplicatesNeighbor guards against "repeat the last line" examples: the
// middle must not be a verbatim copy of the adjacent prefix or suffix line.
func duplicatesNeighbor(middle, prefix, suffix string) bool {
	if last := lastNonBlankLine(prefix); last != "" && last == middle {
		return true
	}
	if first := firstNonBlankLine(suffix); first != "" && first == middle {
		return true
	}
	return false
}

func lastNonBlankLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
