// Package sat implements the CDCL core from spec.md §2.7 and §4.1:
// assignment trail, two-watched-literal propagation, first-UIP
// conflict analysis, VSIDS-style activity ordering via a flat sorted
// array, Luby-sequence restarts, and a tiered clause database.
//
// Grounded on the minisat-style architecture of the pack's
// rhartert/yass internal solver (trail + trailLim + watcher lists +
// analyze/record/cancelUntil), adapted to spec.md's literal
// representation (lit.Lit) and its stricter lazy-clause-add and
// restart-schedule requirements.
package sat

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
)

// Value is a variable's current truth assignment.
type Value int8

const (
	Unassigned Value = 0
	True       Value = 1
	False      Value = -1
)

// Theory is the hook the SAT engine calls once the Boolean trail is
// quiescent (spec.md §4.1: "Between assignment batches ... the engine
// runs theory propagation"). It is a tiny interface rather than a
// direct dependency on package propagate, so sat has no import-cycle
// exposure to the propagator queue or constraint store.
type Theory interface {
	Propagate(s *Solver) Outcome
}

// OutcomeKind models the three ways a theory frame can hand control
// back to the Boolean loop, standing in for the original's
// longjmp-based unwind (spec.md §4.1 "Theory/SAT control flow").
type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomePropagate
	OutcomeFail
	OutcomeRestart
)

type Outcome struct {
	Kind   OutcomeKind
	Lit    lit.Lit  // for Propagate/Restart
	Reason *Clause  // for Fail/Propagate
}

// Solver is the CDCL engine. Variables are 1-based; index 0 is unused
// so the zero value of lit.Lit (no literal) never aliases a real var.
type Solver struct {
	opts   core.Options
	logger core.Logger

	clauses []*Clause
	learnts []*Clause
	watches map[lit.Lit][]*Clause

	trail    []lit.Lit
	trailLim []int
	qhead    int

	value  []Value
	level  []int
	reason []*Clause

	activity []float64
	varInc   float64
	varDecay float64

	clauseInc   float64
	clauseDecay float64

	order *VarOrder

	theory Theory

	unsat bool

	rng uint64

	restart    restartState
	TotalConflicts int64
	TotalRestarts  int64
}

func NewSolver(opts core.Options) *Solver {
	s := &Solver{
		opts:        opts,
		watches:     make(map[lit.Lit][]*Clause),
		value:       []Value{Unassigned},
		level:       []int{-1},
		reason:      []*Clause{nil},
		activity:    []float64{0},
		varInc:      1,
		varDecay:    opts.VarDecay,
		clauseInc:   1,
		clauseDecay: opts.ClauseDecay,
		rng:         0x9e3779b97f4a7c15,
		restart:     newRestartState(opts.RestartBase),
	}
	s.order = newVarOrder(s)
	return s
}

func (s *Solver) SetTheory(t Theory)  { s.theory = t }
func (s *Solver) SetLogger(l core.Logger) { s.logger = l }

func (s *Solver) NumVars() int { return len(s.value) - 1 }

// Clauses returns the solver's initial (non-learnt) clause database,
// for backend.DumpDIMACS.
func (s *Solver) Clauses() []*Clause { return s.clauses }

// Learnts returns the learnt clause database, for solver.Context.Dump.
func (s *Solver) Learnts() []*Clause { return s.learnts }

// TrailLen returns the number of literals currently on the assignment
// trail, for solver.Context.Dump.
func (s *Solver) TrailLen() int { return len(s.trail) }

func (s *Solver) DecisionLevel() int { return len(s.trailLim) }

func (s *Solver) Value(l lit.Lit) Value {
	v := s.value[l.Var()]
	if v == Unassigned || l.Sign() {
		return v
	}
	return -v
}

// NewVar allocates a fresh Boolean variable and returns its 1-based
// index.
func (s *Solver) NewVar() int {
	s.value = append(s.value, Unassigned)
	s.level = append(s.level, -1)
	s.reason = append(s.reason, nil)
	s.activity = append(s.activity, 0)
	s.order.grow()
	return len(s.value) - 1
}

// nextRand is the xorshift PRNG spec.md §4.1 calls for tie-breaking
// polarity selection.
func (s *Solver) nextRand() uint64 {
	x := s.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.rng = x
	return x
}
