package record

import (
	"fimcorpus/internal/split"
)

// DropReason explains why the assembler refused a surviving candidate.
type DropReason string

const (
	DropNone        DropReason = ""
	DropBoilerplate DropReason = "duplicate_boilerplate"
	DropExactDup    DropReason = "exact_duplicate"
)

// Assembler converts candidates into records while enforcing the two
// corpus-wide dedup rules: at most cap records per normalized middle
// fingerprint, and exactly one record per example fingerprint.
//
// The assembler is the single global merge point of the run. Workers never
// touch it during per-candidate evaluation; the collector feeds it batches
// at the synchronization boundary, so it needs no internal locking.
type Assembler struct {
	cap  int
	freq map[uint64]int
	seen map[string]struct{}

	boilerplateDrops int64
	exactDrops       int64
}

func NewAssembler(fingerprintCap int) *Assembler {
	return &Assembler{
		cap:  fingerprintCap,
		freq: make(map[uint64]int),
		seen: make(map[string]struct{}),
	}
}

// Add builds a record for the candidate, or reports why it was dropped.
func (a *Assembler) Add(c *split.Candidate) (Record, DropReason) {
	rec := New(c)

	if _, dup := a.seen[rec.Fingerprint]; dup {
		a.exactDrops++
		return Record{}, DropExactDup
	}

	mf := MiddleFingerprint(c.Middle)
	if a.freq[mf] >= a.cap {
		a.boilerplateDrops++
		return Record{}, DropBoilerplate
	}

	a.freq[mf]++
	a.seen[rec.Fingerprint] = struct{}{}
	return rec, DropNone
}

// Drops returns the boilerplate-cap and exact-duplicate drop counts.
func (a *Assembler) Drops() (boilerplate, exact int64) {
	return a.boilerplateDrops, a.exactDrops
}
