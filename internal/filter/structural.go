package filter

import (
	"fimcorpus/internal/directive"
	"fimcorpus/internal/split"
)

// structuralPhase is Phase 0: the directive stack validator. Its
// acceptance rate is the primary pipeline health metric; the defect class
// it catches is rare but makes an example uncompletable in principle.
type structuralPhase struct {
	opts  directive.Options
	stats *Stats
}

func (p *structuralPhase) Name() string { return "structural" }

func (p *structuralPhase) Evaluate(c *split.Candidate) (Verdict, *split.Candidate) {
	res := directive.Check(c.File.Content, c.PrefixStart, c.Offset, c.SuffixEnd, p.opts)
	p.stats.DirectiveWarnings += int64(len(res.Warnings))

	switch res.Failure {
	case directive.FailOrphan:
		return Reject(ReasonOrphanDirective, res.Failure.String()), c
	case directive.FailUnmatchedEndif:
		return Reject(ReasonUnmatchedEndif, res.Failure.String()), c
	}
	return Accept(), c
}
