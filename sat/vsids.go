package sat

import (
	"sort"

	"github.com/xDarkicex/smchr/lit"
)

// VarOrder keeps variables in a flat array sorted by descending
// activity, per spec.md §4.1: "A separate flat order array maintains
// variables in descending activity order; bumping moves a variable at
// most to its new rank via binary search + single swap." next_var is
// a cursor scanned forward for the next unassigned variable.
type VarOrder struct {
	s       *Solver
	order   []int // var ids, descending activity
	pos     []int // var id -> index into order
	nextVar int
}

func newVarOrder(s *Solver) *VarOrder {
	return &VarOrder{s: s, pos: []int{-1}}
}

func (o *VarOrder) grow() {
	v := len(o.pos)
	o.pos = append(o.pos, len(o.order))
	o.order = append(o.order, v)
}

// bump re-sorts v into its new rank after an activity increase. Since
// activity only grows, v can only need to move toward the front: scan
// left via binary search for the first index whose activity is no
// greater than v's new activity, then shift the entries in between one
// place right and put v there.
func (o *VarOrder) bump(v int) {
	i := o.pos[v]
	act := o.s.activity[v]
	target := sort.Search(i, func(k int) bool {
		return o.s.activity[o.order[k]] <= act
	})
	if target == i {
		return
	}
	moved := o.order[i]
	copy(o.order[target+1:i+1], o.order[target:i])
	o.order[target] = moved
	for k := target; k <= i; k++ {
		o.pos[o.order[k]] = k
	}
}

// selectVar scans from nextVar forward for the first unassigned
// variable in activity order, per spec.md §4.1's "cursor" rule.
func (o *VarOrder) selectVar() int {
	for o.nextVar < len(o.order) {
		v := o.order[o.nextVar]
		if o.s.value[v] == Unassigned {
			return v
		}
		o.nextVar++
	}
	return 0
}

// undo rewinds the cursor so v becomes reconsiderable again after
// backtracking unassigns it.
func (o *VarOrder) undo(v int) {
	if i := o.pos[v]; i < o.nextVar {
		o.nextVar = i
	}
}

// bumpVarActivity implements the activity counter and its periodic
// decay (spec.md §4.1 "Each variable keeps an activity counter bumped
// by 1 ... Decay halves all activities").
func (s *Solver) bumpVarActivity(v int) {
	s.activity[v] += s.varInc
	if s.activity[v] > 1e100 {
		for i := range s.activity {
			s.activity[i] *= 1e-100
		}
		s.varInc *= 1e-100
	}
	s.order.bump(v)
}

func (s *Solver) decayVarActivity() { s.varInc /= s.varDecay }

func (s *Solver) bumpClauseActivity(c *Clause) {
	c.Activity += s.clauseInc
	if c.Activity > 1e100 {
		for _, l := range s.learnts {
			l.Activity *= 1e-100
		}
		s.clauseInc *= 1e-100
	}
}

func (s *Solver) decayClauseActivity() { s.clauseInc /= s.clauseDecay }

// pickPolarity chooses the polarity that currently satisfies the more
// not-yet-satisfied watched clauses for v, ties broken by the
// solver's xorshift PRNG (spec.md §4.1).
func (s *Solver) pickPolarity(v int) bool {
	posScore := len(s.watches[lit.Of(v, true)])
	negScore := len(s.watches[lit.Of(v, false)])
	if posScore == negScore {
		return s.nextRand()&1 == 0
	}
	return posScore > negScore
}
