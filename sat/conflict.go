package sat

import "github.com/xDarkicex/smchr/lit"

// analyze implements first-UIP conflict analysis (spec.md §4.1): walk
// the trail backwards from the conflict, marking literals at the
// current decision level and collecting literals from earlier levels
// into the learnt clause, until exactly one marked literal remains at
// the current level (the UIP). Returns the learnt clause (UIP
// negation first) and the backjump level.
func (s *Solver) analyze(conflict *Clause) ([]lit.Lit, int) {
	seen := make(map[int]bool)
	learnt := []lit.Lit{0} // slot 0 reserved for the negated UIP
	pathCount := 0
	backjump := 0

	p := lit.Lit(0)
	reasonLits := conflict.Lits
	idx := len(s.trail) - 1

	for {
		for _, q := range reasonLits {
			if !p.IsNil() && q == p {
				continue // the literal being explained is not its own antecedent
			}
			v := q.Var()
			if seen[v] {
				continue
			}
			seen[v] = true
			s.bumpVarActivity(v)
			if s.level[v] == s.DecisionLevel() {
				pathCount++
				continue
			}
			if s.level[v] > 0 {
				learnt = append(learnt, q)
				if s.level[v] > backjump {
					backjump = s.level[v]
				}
			}
		}

		for {
			p = s.trail[idx]
			idx--
			if seen[p.Var()] {
				break
			}
		}
		pathCount--
		if pathCount <= 0 {
			break
		}
		if r := s.reason[p.Var()]; r != nil {
			reasonLits = r.Lits
			if r.Learnt {
				s.bumpClauseActivity(r)
			}
		} else {
			reasonLits = nil
		}
	}

	learnt[0] = p.Negate()
	learnt = selfSubsume(learnt, s)
	return learnt, backjump
}

// selfSubsume drops a learnt literal whose reason clause's other
// literals are all already in the marked set, the "self-subsumption
// prunes conflicts whose reason is wholly inside the marked set" rule
// of spec.md §4.1.
func selfSubsume(learnt []lit.Lit, s *Solver) []lit.Lit {
	marked := make(map[lit.Lit]bool, len(learnt))
	for _, l := range learnt {
		marked[l] = true
	}
	out := learnt[:1]
	for _, l := range learnt[1:] {
		r := s.reason[l.Negate().Var()]
		if r == nil {
			out = append(out, l)
			continue
		}
		redundant := true
		for _, rl := range r.Lits {
			if rl == l.Negate() {
				continue
			}
			if !marked[rl] {
				redundant = false
				break
			}
		}
		if !redundant {
			out = append(out, l)
		}
	}
	return out
}

// record installs a learnt clause: enqueues its first literal (the
// UIP) with the clause as reason, and files it into the learnt
// database with watches on slots 0 and 1.
func (s *Solver) record(learnt []lit.Lit) {
	if len(learnt) >= 2 {
		// Slot 1 must hold the literal from the backjump level so the
		// two watches stay valid immediately after cancelUntil.
		maxLevel, maxIdx := -1, 1
		for i := 1; i < len(learnt); i++ {
			if lv := s.level[learnt[i].Negate().Var()]; lv > maxLevel {
				maxLevel, maxIdx = lv, i
			}
		}
		learnt[1], learnt[maxIdx] = learnt[maxIdx], learnt[1]
	}
	c := newClause(learnt, true)
	if len(learnt) >= 2 {
		s.watch(c, c.Lits[0])
		s.watch(c, c.Lits[1])
	}
	s.computeLBD(c)
	s.enqueue(learnt[0], c)
	s.learnts = append(s.learnts, c)
	s.bumpClauseActivity(c)
	if len(s.learnts) > s.opts.MaxLearned {
		s.reduceDB()
	}
}
