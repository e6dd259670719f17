package filter

// PhaseStat counts candidates entering and surviving one phase, with a
// breakdown of rejection reasons.
type PhaseStat struct {
	Name    string
	In      int64
	Out     int64
	Rejects map[Reason]int64
}

// AcceptanceRate is Out/In; 1 when the phase saw nothing.
func (p PhaseStat) AcceptanceRate() float64 {
	if p.In == 0 {
		return 1
	}
	return float64(p.Out) / float64(p.In)
}

// Stats aggregates phase counters for one run (or one worker's share of
// it). Workers keep a local Stats and merge at the batch boundary; no
// counter is touched concurrently.
type Stats struct {
	Phases            []PhaseStat
	DirectiveWarnings int64
}

func NewStats(phaseNames []string) *Stats {
	s := &Stats{Phases: make([]PhaseStat, len(phaseNames))}
	for i, name := range phaseNames {
		s.Phases[i] = PhaseStat{Name: name, Rejects: make(map[Reason]int64)}
	}
	return s
}

func (s *Stats) observe(phase int, v Verdict) {
	p := &s.Phases[phase]
	p.In++
	if v.Accepted {
		p.Out++
		return
	}
	p.Rejects[v.Reason]++
}

// Merge folds another Stats into s. Both must come from chains built with
// the same phase list.
func (s *Stats) Merge(o *Stats) {
	for i := range o.Phases {
		if i >= len(s.Phases) {
			break
		}
		dst := &s.Phases[i]
		src := o.Phases[i]
		dst.In += src.In
		dst.Out += src.Out
		for r, n := range src.Rejects {
			dst.Rejects[r] += n
		}
	}
	s.DirectiveWarnings += o.DirectiveWarnings
}
