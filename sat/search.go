package sat

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
)

// Status is the three-valued outcome of a bounded search step.
type Status int

const (
	StatusUnknown Status = iota
	StatusSAT
	StatusUNSAT
)

// Solve runs CDCL search to completion (no conflict/time budget),
// looping theory propagation and restarts as spec.md §4.1 describes.
func (s *Solver) Solve() Status {
	if s.unsat {
		return StatusUNSAT
	}
	for {
		conflict := s.propagateWithTheory()
		if conflict != nil {
			if s.DecisionLevel() == 0 {
				s.unsat = true
				return StatusUNSAT
			}
			s.TotalConflicts++
			s.restart.recordConflict()
			learnt, backjump := s.analyze(conflict)
			s.cancelUntil(backjump)
			s.record(learnt)
			s.decayVarActivity()
			s.decayClauseActivity()
			continue
		}

		if s.restart.dueForRestart() {
			s.cancelUntil(0)
			s.restart.advance()
			s.TotalRestarts++
			continue
		}

		if s.allAssigned() {
			return StatusSAT
		}

		v := s.order.selectVar()
		if v == 0 {
			return StatusSAT
		}
		polarity := s.pickPolarity(v)
		s.decide(lit.Of(v, polarity))
	}
}

// propagateWithTheory runs Boolean unit propagation, then (on
// quiescence) theory propagation, looping until both queues are empty
// or a conflict/restart is signalled (spec.md §4.1).
func (s *Solver) propagateWithTheory() *Clause {
	for {
		if conflict := s.propagate(); conflict != nil {
			return conflict
		}
		if s.theory == nil {
			return nil
		}
		outcome := s.theory.Propagate(s)
		switch outcome.Kind {
		case OutcomeContinue:
			return nil
		case OutcomePropagate:
			s.enqueue(outcome.Lit, outcome.Reason)
		case OutcomeFail:
			return outcome.Reason
		case OutcomeRestart:
			s.cancelUntil(0)
			s.restart.advance()
			s.enqueue(outcome.Lit, nil)
		}
	}
}

func (s *Solver) allAssigned() bool {
	for v := 1; v < len(s.value); v++ {
		if s.value[v] == Unassigned {
			return false
		}
	}
	return true
}

func (s *Solver) decide(l lit.Lit) {
	s.trailLim = append(s.trailLim, len(s.trail))
	s.enqueue(l, nil)
}

func (s *Solver) cancelUntil(level int) {
	for s.DecisionLevel() > level {
		start := s.trailLim[len(s.trailLim)-1]
		for i := len(s.trail) - 1; i >= start; i-- {
			v := s.trail[i].Var()
			s.order.undo(v)
			s.value[v] = Unassigned
			s.level[v] = -1
			s.reason[v] = nil
		}
		s.trail = s.trail[:start]
		s.trailLim = s.trailLim[:len(s.trailLim)-1]
	}
	if s.qhead > len(s.trail) {
		s.qhead = len(s.trail)
	}
}

// AddClauseDuringSearch implements the lazy clause addition protocol
// of spec.md §4.1: dedup/tautology drop, watch-invariant literal
// ordering, and the singleton/FAIL/PROPAGATE/late-clause cases. It
// returns the Outcome a theory propagator should hand back to the
// Boolean loop.
func (s *Solver) AddClauseDuringSearch(lits []lit.Lit, keep bool) Outcome {
	lits = dedupe(lits)
	if isTautology(lits) {
		return Outcome{Kind: OutcomeContinue}
	}
	if len(lits) == 0 {
		return Outcome{Kind: OutcomeFail}
	}

	sortByWatchPreference(s, lits)

	if len(lits) == 1 {
		l := lits[0]
		if s.level[l.Var()] == 0 && s.Value(l) == False {
			return Outcome{Kind: OutcomeFail}
		}
		return Outcome{Kind: OutcomeRestart, Lit: l}
	}

	c := newClause(lits, true)
	c.Keep = keep

	if s.Value(c.Lits[0]) == False {
		return Outcome{Kind: OutcomeFail, Reason: c}
	}
	if !allOlderThanCurrent(s, c.Lits) {
		// Late clause: every non-free literal from an older level is the
		// expected shape. Anything else means a theory violated the
		// posting protocol.
		panic(core.Errorf(core.KindProtocol, "sat", "AddClauseDuringSearch",
			"theory posted a clause outside the lazy-add protocol"))
	}

	s.watch(c, c.Lits[0])
	s.watch(c, c.Lits[1])
	s.learnts = append(s.learnts, c)

	if s.Value(c.Lits[1]) == False && s.Value(c.Lits[0]) == Unassigned {
		return Outcome{Kind: OutcomePropagate, Lit: c.Lits[0], Reason: c}
	}
	return Outcome{Kind: OutcomeContinue}
}

// sortByWatchPreference orders literals true-with-lowest-level < free
// < false-with-highest-level, so slots 0/1 are immediately valid
// watches (spec.md §4.1).
func sortByWatchPreference(s *Solver, lits []lit.Lit) {
	rank := func(l lit.Lit) (int, int) {
		switch s.Value(l) {
		case True:
			return 0, s.level[l.Var()]
		case Unassigned:
			return 1, 0
		default:
			return 2, -s.level[l.Var()]
		}
	}
	for i := 1; i < len(lits); i++ {
		for j := i; j > 0; j-- {
			ri, lvi := rank(lits[j])
			rj, lvj := rank(lits[j-1])
			if ri < rj || (ri == rj && lvi < lvj) {
				lits[j], lits[j-1] = lits[j-1], lits[j]
			} else {
				break
			}
		}
	}
}

func allOlderThanCurrent(s *Solver, lits []lit.Lit) bool {
	for _, l := range lits {
		if s.Value(l) == Unassigned {
			return true
		}
	}
	return false
}
