package sat

import "github.com/xDarkicex/smchr/lit"

// Clause is a flat vector of literals. Slots 0 and 1 are always the
// two watched literals (spec.md §4.1). Learnt clauses additionally
// carry an LBD (literal-block distance) used by the clause database's
// tiering and an activity bumped during conflict analysis.
type Clause struct {
	Lits     []lit.Lit
	Learnt   bool
	LBD      int
	Activity float64
	Keep     bool // survives subsumption/deletion passes unconditionally
}

func newClause(lits []lit.Lit, learnt bool) *Clause {
	return &Clause{Lits: lits, Learnt: learnt}
}

func (c *Clause) isEmpty() bool { return len(c.Lits) == 0 }
func (c *Clause) isUnit() bool  { return len(c.Lits) == 1 }

// watchedOther returns the watch slot (0 or 1) that is not the given
// literal, used when migrating a clause's watch after its other
// literal's variable flips.
func (c *Clause) watchedOther(l lit.Lit) lit.Lit {
	if c.Lits[0] == l {
		return c.Lits[1]
	}
	return c.Lits[0]
}
