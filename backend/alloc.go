// Package backend implements the CNF+Primitives -> SAT literals +
// posted theory atoms pass of spec.md §2.6: it walks the flattened
// output of package flatten, allocates a sat.Solver variable for every
// Boolean atom and every reified Primitive, posts the clauses, and
// wires the arithmetic theories (package theory/bounds and friends) in
// as the sat.Theory the Boolean core calls between decisions.
package backend

import (
	"github.com/xDarkicex/smchr/flatten"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/sat"
	"github.com/xDarkicex/smchr/term"
)

// Allocator hands out one SAT variable per distinct term.Var atom,
// memoised by pointer identity so the same Boolean variable or
// reification atom always maps to the same sat.Solver index.
type Allocator struct {
	solver *sat.Solver
	vars   map[*term.Var]int
}

func NewAllocator(solver *sat.Solver) *Allocator {
	return &Allocator{solver: solver, vars: make(map[*term.Var]int)}
}

func (a *Allocator) varFor(v *term.Var) int {
	id, ok := a.vars[v]
	if !ok {
		id = a.solver.NewVar()
		a.vars[v] = id
	}
	return id
}

// litFor returns the positive literal for v, allocating a fresh SAT
// variable on first use.
func (a *Allocator) litFor(v *term.Var) lit.Lit {
	return lit.Of(a.varFor(v), true)
}

// Lit resolves one flatten.Literal to its signed sat literal.
func (a *Allocator) Lit(l flatten.Literal) lit.Lit {
	v := l.Atom.(*term.Var)
	base := a.litFor(v)
	if l.Negated {
		return base.Negate()
	}
	return base
}

// FreshLit implements domain.ClauseSink: a brand-new positive literal
// over a brand-new SAT variable, for the finite-domain expansion's
// internal LB/EQC atoms.
func (a *Allocator) FreshLit() lit.Lit { return a.litFor(term.NewVar("")) }

// AddClause implements domain.ClauseSink by posting straight to the
// underlying solver.
func (a *Allocator) AddClause(lits []lit.Lit) { a.solver.AddClause(lits) }

// Assignment returns the current Boolean value of every term.Var this
// allocator has handed a SAT variable to, omitting any still
// unassigned. Used to build the residual conjunction spec.md §6's
// `execute` returns on a satisfiable query.
func (a *Allocator) Assignment() map[*term.Var]bool {
	out := make(map[*term.Var]bool, len(a.vars))
	for v, id := range a.vars {
		val := a.solver.Value(lit.Of(id, true))
		if val == sat.Unassigned {
			continue
		}
		out[v] = val == sat.True
	}
	return out
}
