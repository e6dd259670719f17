// Package split proposes fill-in-the-middle candidates for a source file.
// Splits land on line boundaries only, never mid-token.
package split

import (
	"sort"
	"strings"

	"fimcorpus/internal/corpus"
)

// Candidate is one proposed (prefix, suffix, middle) split. Offsets are
// byte positions in the original file; prefix+middle+suffix always
// reconstructs the contiguous slice [PrefixStart, SuffixEnd).
type Candidate struct {
	File *corpus.SourceFile

	// Offset is the split point: end of prefix, start of middle.
	Offset      int
	Line        int // 1-based line number of the split point
	PrefixStart int
	MiddleEnd   int
	SuffixEnd   int

	Prefix string
	Middle string
	Suffix string
}

// Contiguous reports whether the windows still reconstruct one slice of
// the original file.
func (c *Candidate) Contiguous() bool {
	text := c.File.Content
	return c.Prefix == string(text[c.PrefixStart:c.Offset]) &&
		c.Middle == string(text[c.Offset:c.MiddleEnd]) &&
		c.Suffix == string(text[c.MiddleEnd:c.SuffixEnd])
}

// WithPrefixStart derives a new candidate with a narrower prefix window.
// Candidates are immutable; truncation produces a fresh entity.
func (c *Candidate) WithPrefixStart(start int) *Candidate {
	out := *c
	out.PrefixStart = start
	out.Prefix = string(c.File.Content[start:c.Offset])
	return &out
}

// Generator materializes candidates according to the sampling policy.
type Generator struct {
	maxContextChars int
	minMiddleLen    int
	maxMiddleLen    int
	density         int // one split per density code lines
}

func NewGenerator(maxContextChars, minMiddleLen, maxMiddleLen, density int) *Generator {
	return &Generator{
		maxContextChars: maxContextChars,
		minMiddleLen:    minMiddleLen,
		maxMiddleLen:    maxMiddleLen,
		density:         density,
	}
}

// Candidates produces the split candidates for one file. Degenerate splits
// (file start or end, empty middle) are never emitted.
func (g *Generator) Candidates(f *corpus.SourceFile) []*Candidate {
	text := f.Content
	starts := lineStarts(text)

	var out []*Candidate
	codeLines := 0
	for i, start := range starts {
		lineEnd := len(text)
		if i+1 < len(starts) {
			lineEnd = starts[i+1]
		}
		if !isCodeLine(text[start:lineEnd]) {
			continue
		}
		codeLines++
		if (codeLines-1)%g.density != 0 {
			continue
		}

		// Split after this code line.
		offset := lineEnd
		if offset <= 0 || offset >= len(text) {
			continue
		}

		middleEnd, ok := g.middleEnd(text, starts, i+1, offset)
		if !ok {
			continue
		}

		c := &Candidate{
			File:        f,
			Offset:      offset,
			Line:        i + 2,
			PrefixStart: g.prefixStart(starts, offset),
			MiddleEnd:   middleEnd,
			SuffixEnd:   g.suffixEnd(text, starts, middleEnd),
		}
		c.Prefix = string(text[c.PrefixStart:c.Offset])
		c.Middle = string(text[c.Offset:c.MiddleEnd])
		c.Suffix = string(text[c.MiddleEnd:c.SuffixEnd])
		out = append(out, c)
	}
	return out
}

// middleEnd expands forward from the split point one full line at a time
// until the middle reaches the minimum length, keeping it under the
// maximum. fromLine indexes the first line of the middle.
func (g *Generator) middleEnd(text []byte, starts []int, fromLine, offset int) (int, bool) {
	for i := fromLine; i < len(starts); i++ {
		lineEnd := len(text)
		if i+1 < len(starts) {
			lineEnd = starts[i+1]
		}
		if lineEnd-offset > g.maxMiddleLen {
			return 0, false
		}
		if lineEnd-offset >= g.minMiddleLen {
			return lineEnd, true
		}
	}
	return 0, false
}

// prefixStart walks back max_context_chars from the split and rounds the
// outer edge up to the next line start, so the window keeps the text
// nearest the split point.
func (g *Generator) prefixStart(starts []int, offset int) int {
	start := offset - g.maxContextChars
	if start <= 0 {
		return 0
	}
	i := sort.SearchInts(starts, start)
	if i >= len(starts) || starts[i] > offset {
		return offset
	}
	return starts[i]
}

// suffixEnd extends max_context_chars past the middle and rounds the outer
// edge down to a line start, so a partial trailing line never presents the
// model with a mid-token cut.
func (g *Generator) suffixEnd(text []byte, starts []int, middleEnd int) int {
	end := middleEnd + g.maxContextChars
	if end >= len(text) {
		return len(text)
	}
	i := sort.SearchInts(starts, end+1) - 1
	if i >= 0 && starts[i] >= middleEnd {
		return starts[i]
	}
	return middleEnd
}

func lineStarts(text []byte) []int {
	starts := []int{0}
	for i, b := range text {
		if b == '\n' && i+1 < len(text) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// isCodeLine mirrors the sampling policy: splits are proposed only after
// lines that carry code, not blanks or comment furniture.
func isCodeLine(line []byte) bool {
	s := strings.TrimSpace(string(line))
	if s == "" {
		return false
	}
	for _, p := range []string{"//", "/*", "*", "*/"} {
		if strings.HasPrefix(s, p) {
			return false
		}
	}
	return true
}
