package sat

import "github.com/rhartert/yagh"

// tier buckets learnt clauses by LBD, the "tiered clause database
// (core/mid/local/recent by LBD)" from spec.md §2.7.
type tier int

const (
	tierCore tier = iota
	tierMid
	tierLocal
	tierRecent
)

func tierOf(lbd int) tier {
	switch {
	case lbd <= 2:
		return tierCore
	case lbd <= 6:
		return tierMid
	case lbd <= 12:
		return tierLocal
	default:
		return tierRecent
	}
}

// computeLBD sets a learnt clause's literal-block distance: the count
// of distinct decision levels among its literals.
func (s *Solver) computeLBD(c *Clause) {
	seen := make(map[int]bool, len(c.Lits))
	for _, l := range c.Lits {
		seen[s.level[l.Var()]] = true
	}
	c.LBD = len(seen)
}

// reduceDB prunes the lower half of non-core, non-locked learnt
// clauses by activity, using a rhartert/yagh min-heap keyed on
// activity to pick deletion victims without a full sort on every
// call — this is the one place spec.md §9 sanctions a heap (the
// propagator queue and VSIDS order explicitly stay flat arrays).
func (s *Solver) reduceDB() {
	h := yagh.New[int, float64]()
	for i, c := range s.learnts {
		if c.Keep || tierOf(c.LBD) == tierCore || s.locked(c) {
			continue
		}
		h.Push(i, c.Activity)
	}

	toDrop := make(map[int]bool, h.Len()/2)
	for n := h.Len() / 2; n > 0 && h.Len() > 0; n-- {
		idx, _, _ := h.Pop()
		toDrop[idx] = true
	}

	kept := s.learnts[:0]
	for i, c := range s.learnts {
		if toDrop[i] {
			s.unwatch(c, c.Lits[0])
			s.unwatch(c, c.Lits[1])
			continue
		}
		kept = append(kept, c)
	}
	s.learnts = kept
}

// LearntTierCounts reports how many learnt clauses currently fall in
// each LBD tier, for solver.Context.Dump.
func (s *Solver) LearntTierCounts() map[string]int {
	names := map[tier]string{tierCore: "core", tierMid: "mid", tierLocal: "local", tierRecent: "recent"}
	counts := map[string]int{"core": 0, "mid": 0, "local": 0, "recent": 0}
	for _, c := range s.learnts {
		counts[names[tierOf(c.LBD)]]++
	}
	return counts
}

// locked reports whether c is currently the reason for an assignment,
// and so cannot be deleted without invalidating that assignment's
// justification.
func (s *Solver) locked(c *Clause) bool {
	if len(c.Lits) == 0 {
		return false
	}
	v := c.Lits[0].Var()
	return s.reason[v] == c
}
