package filter

import (
	"fimcorpus/internal/config"
	"fimcorpus/internal/directive"
	"fimcorpus/internal/split"
)

// Phase is one gate of the chain: a pure decision over a candidate. The
// returned candidate is usually the input; a phase that transforms (the
// length phase truncating a prefix) returns the derived candidate instead.
type Phase interface {
	Name() string
	Evaluate(c *split.Candidate) (Verdict, *split.Candidate)
}

// Chain runs candidates through the ordered phases and accumulates stats.
// A chain is single-goroutine state: build one per worker and merge the
// stats at the batch boundary.
type Chain struct {
	phases []Phase
	stats  *Stats
}

// NewChain assembles the standard 0-3 chain from configuration.
func NewChain(cfg *config.Config) *Chain {
	opts := directive.Options{
		RequireVisibleOpener: cfg.RequireVisibleOpener,
		CheckSuffix:          cfg.CheckSuffixDirectives,
	}

	stats := NewStats(PhaseNames())

	return &Chain{
		phases: []Phase{
			&structuralPhase{opts: opts, stats: stats},
			contextPhase{},
			contentPhase{},
			&lengthPhase{tokenBudget: cfg.TokenBudget, opts: opts},
		},
		stats: stats,
	}
}

// PhaseNames returns the ordered phase names of a standard chain, used to
// build mergeable aggregate stats.
func PhaseNames() []string {
	return []string{"structural", "context", "content", "length"}
}

// Run evaluates one candidate. It returns the surviving candidate (which
// may be a truncated derivative) and whether it survived all phases.
func (ch *Chain) Run(c *split.Candidate) (*split.Candidate, bool) {
	for i, phase := range ch.phases {
		verdict, next := phase.Evaluate(c)
		ch.stats.observe(i, verdict)
		if !verdict.Accepted {
			return nil, false
		}
		c = next
	}
	return c, true
}

// Stats exposes the chain's accumulated counters.
func (ch *Chain) Stats() *Stats {
	return ch.stats
}
