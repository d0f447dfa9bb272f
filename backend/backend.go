package backend

import (
	"github.com/xDarkicex/smchr/flatten"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/sat"
)

// Backend owns the literal allocator and the arithmetic Theory built
// from one flatten.CNF over one sat.Solver.
type Backend struct {
	Solver *sat.Solver
	Alloc  *Allocator
	Theory *Theory
}

// Build allocates SAT variables for every atom the CNF mentions, posts
// its clauses, and attaches a Theory driving its arithmetic Primitives
// as solver's theory hook (spec.md §2.6, §4.1).
func Build(cnf *flatten.CNF, solver *sat.Solver) *Backend {
	alloc := NewAllocator(solver)
	for _, clause := range cnf.Clauses {
		lits := make([]lit.Lit, len(clause))
		for i, l := range clause {
			lits[i] = alloc.Lit(l)
		}
		solver.AddClause(lits)
	}
	th := NewTheory(alloc, cnf.Primitives)
	solver.SetTheory(th)
	return &Backend{Solver: solver, Alloc: alloc, Theory: th}
}
