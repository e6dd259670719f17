// Package filter implements the four-phase validity chain. Each phase is
// a predicate over one candidate; a candidate rejected by phase k never
// reaches phase k+1.
package filter

// Reason is a candidate-level rejection code. Rejections are statistics,
// never errors: no candidate can abort a run.
type Reason string

const (
	ReasonOrphanDirective      Reason = "orphan_directive"
	ReasonUnmatchedEndif       Reason = "unmatched_endif"
	ReasonEmptyContext         Reason = "empty_context"
	ReasonWeakContext          Reason = "weak_context"
	ReasonDuplicateBoilerplate Reason = "duplicate_boilerplate"
	ReasonTrivialMiddle        Reason = "trivial_middle"
	ReasonOverBudget           Reason = "over_budget"
)

// Verdict is one phase's decision for one candidate.
type Verdict struct {
	Accepted bool
	Reason   Reason
	Detail   string
}

func Accept() Verdict { return Verdict{Accepted: true} }

func Reject(r Reason, detail string) Verdict {
	return Verdict{Reason: r, Detail: detail}
}
