package filter

import (
	"fmt"
	"strings"

	"fimcorpus/internal/directive"
	"fimcorpus/internal/split"
)

// lengthPhase is Phase 3: the final size budget. An over-budget candidate
// gets one chance: the prefix is truncated from its outer edge, and the
// truncated window must still pass the directive validator.
type lengthPhase struct {
	tokenBudget int
	opts        directive.Options
}

func (p *lengthPhase) Name() string { return "length" }

func (p *lengthPhase) Evaluate(c *split.Candidate) (Verdict, *split.Candidate) {
	if tokens(c.Prefix)+tokens(c.Middle)+tokens(c.Suffix) > p.tokenBudget {
		truncated, ok := p.truncate(c)
		if !ok {
			return Reject(ReasonOverBudget, "token budget"), c
		}
		c = truncated
	}

	if over, limit := ratioTooLarge(c.Prefix, c.Middle); over {
		return Reject(ReasonOverBudget, fmt.Sprintf("middle/prefix ratio above %.1f", limit)), c
	}
	return Accept(), c
}

// truncate drops leading prefix lines until the example fits the budget,
// then re-validates the narrowed window. Truncation that would empty the
// prefix or break directive pairing fails.
func (p *lengthPhase) truncate(c *split.Candidate) (*split.Candidate, bool) {
	fixed := tokens(c.Middle) + tokens(c.Suffix)
	if fixed >= p.tokenBudget {
		return nil, false
	}

	start := c.PrefixStart
	remaining := tokens(c.Prefix)
	for remaining+fixed > p.tokenBudget {
		cut := strings.IndexByte(c.Prefix[start-c.PrefixStart:], '\n')
		if cut < 0 {
			return nil, false
		}
		dropped := c.Prefix[start-c.PrefixStart : start-c.PrefixStart+cut+1]
		start += cut + 1
		remaining -= tokens(dropped)
		if start >= c.Offset {
			return nil, false
		}
	}

	out := c.WithPrefixStart(start)
	res := directive.Check(out.File.Content, out.PrefixStart, out.Offset, out.SuffixEnd, p.opts)
	if !res.Ok() {
		return nil, false
	}
	return out, true
}

// tokens counts whitespace-separated tokens, the same cheap estimator the
// downstream tokenizer budget is calibrated against.
func tokens(s string) int {
	return len(strings.Fields(s))
}

// ratioTooLarge applies adaptive middle/prefix ratio caps: short prefixes
// naturally carry higher ratios, long prefixes should not.
func ratioTooLarge(prefix, middle string) (bool, float64) {
	plen := len(prefix)
	if plen == 0 {
		return true, 0
	}
	ratio := float64(len(middle)) / float64(plen)

	var limit float64
	switch {
	case plen <= 150:
		limit = 1.2
	case plen <= 300:
		limit = 0.8
	case plen <= 500:
		limit = 0.6
	default:
		limit = 0.4
	}
	return ratio > limit, limit
}
