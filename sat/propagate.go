package sat

import "github.com/xDarkicex/smchr/lit"

// AddClause installs an initial clause before search starts (root
// level only). Tautologies are dropped; a unit enqueues immediately;
// an empty clause flips the solver to UNSAT.
func (s *Solver) AddClause(lits []lit.Lit) {
	if s.unsat {
		return
	}
	lits = dedupe(lits)
	if isTautology(lits) {
		return
	}
	if len(lits) == 0 {
		s.unsat = true
		return
	}
	c := newClause(lits, false)
	if len(lits) == 1 {
		if !s.enqueue(lits[0], nil) {
			s.unsat = true
		}
		return
	}
	s.watch(c, c.Lits[0])
	s.watch(c, c.Lits[1])
	s.clauses = append(s.clauses, c)
}

func dedupe(lits []lit.Lit) []lit.Lit {
	seen := make(map[lit.Lit]bool, len(lits))
	out := lits[:0:0]
	for _, l := range lits {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func isTautology(lits []lit.Lit) bool {
	seen := make(map[lit.Lit]bool, len(lits))
	for _, l := range lits {
		if seen[l.Negate()] {
			return true
		}
		seen[l] = true
	}
	return false
}

func (s *Solver) watch(c *Clause, l lit.Lit) {
	s.watches[l] = append(s.watches[l], c)
}

func (s *Solver) unwatch(c *Clause, l lit.Lit) {
	list := s.watches[l]
	for i, wc := range list {
		if wc == c {
			list[i] = list[len(list)-1]
			s.watches[l] = list[:len(list)-1]
			return
		}
	}
}

// enqueue assigns l true with the given reason, appending it to the
// trail. Returns false if l is already false (conflict).
func (s *Solver) enqueue(l lit.Lit, reason *Clause) bool {
	switch s.Value(l) {
	case False:
		return false
	case True:
		return true
	}
	v := l.Var()
	if l.Sign() {
		s.value[v] = True
	} else {
		s.value[v] = False
	}
	s.level[v] = s.DecisionLevel()
	s.reason[v] = reason
	s.trail = append(s.trail, l)
	return true
}

// propagate runs unit propagation to quiescence, returning the
// conflicting clause (or nil). Implements the four-case watch-list
// walk of spec.md §4.1.
func (s *Solver) propagate() *Clause {
	for s.qhead < len(s.trail) {
		p := s.trail[s.qhead]
		s.qhead++

		falsified := p.Negate()
		list := s.watches[falsified]
		keep := list[:0]
		var conflict *Clause

		for i := 0; i < len(list); i++ {
			c := list[i]
			other := c.watchedOther(falsified)

			if s.Value(other) == True {
				keep = append(keep, c)
				continue
			}

			moved := false
			idx := 0
			if c.Lits[0] != falsified {
				idx = 1
			}
			for j := 2; j < len(c.Lits); j++ {
				if s.Value(c.Lits[j]) != False {
					newWatch := c.Lits[j]
					c.Lits[j] = falsified
					c.Lits[idx] = newWatch
					s.watch(c, newWatch)
					moved = true
					break
				}
			}
			if moved {
				continue
			}

			keep = append(keep, c)
			if s.Value(other) == Unassigned {
				s.enqueue(other, c)
			} else {
				conflict = c
				for ; i+1 < len(list); i++ {
					keep = append(keep, list[i+1])
				}
				break
			}
		}
		s.watches[falsified] = keep
		if conflict != nil {
			return conflict
		}
	}
	return nil
}
