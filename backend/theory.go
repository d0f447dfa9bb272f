package backend

import (
	"github.com/xDarkicex/smchr/flatten"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/sat"
	"github.com/xDarkicex/smchr/term"
	"github.com/xDarkicex/smchr/theory/bounds"
)

// Theory is the sat.Theory implementation spec.md §4.1 calls between
// assignment batches: it walks the Primitives a flatten pass produced,
// applying each one's bounds-interval consequence once its reification
// atom (if any) has been decided true, and reporting interval conflicts
// back to the Boolean core as a learnt clause.
//
// A Primitive with a nil Reified is a hard constraint (always active);
// one with a non-nil Reified only fires once that atom is decided
// true. Deciding a reification atom false is not separately enforced
// here — matching the "no separate equality propagator on the fast
// path" precedent of theory/eq, this is a directional, not bidirectional,
// propagator.
type Theory struct {
	alloc  *Allocator
	prims  []flatten.Primitive
	done   []bool
	bounds *bounds.Store
}

func NewTheory(alloc *Allocator, prims []flatten.Primitive) *Theory {
	return &Theory{alloc: alloc, prims: prims, done: make([]bool, len(prims)), bounds: bounds.NewStore()}
}

// Bounds exposes the underlying interval store.
func (t *Theory) Bounds() *bounds.Store { return t.bounds }

func (t *Theory) Propagate(s *sat.Solver) sat.Outcome {
	for i := range t.prims {
		if t.done[i] {
			continue
		}
		p := t.prims[i]
		active, witness, known := t.activation(s, p)
		if !known {
			continue
		}
		if !active {
			t.done[i] = true
			continue
		}
		if err := t.apply(p, witness); err != nil {
			return sat.Outcome{Kind: sat.OutcomeFail, Reason: t.conflictClause(p, witness)}
		}
		t.done[i] = true
	}
	return sat.Outcome{Kind: sat.OutcomeContinue}
}

// activation reports whether p is currently active (should be
// enforced) and, if so, the literal witnessing that activation. known
// is false while a reified primitive's atom is still unassigned, the
// signal to the caller to leave it for a later Propagate pass.
func (t *Theory) activation(s *sat.Solver, p flatten.Primitive) (active bool, witness lit.Lit, known bool) {
	if p.Reified == nil {
		return true, lit.Lit(0), true
	}
	l := t.alloc.litFor(p.Reified)
	switch s.Value(l) {
	case sat.True:
		return true, l, true
	case sat.False:
		return false, lit.Lit(0), true
	default:
		return false, lit.Lit(0), false
	}
}

// apply enforces one active Primitive's consequence as an interval
// tightening, justified by witness (the nil literal for a hard,
// unreified primitive).
func (t *Theory) apply(p flatten.Primitive, witness lit.Lit) error {
	switch p.Kind {
	case flatten.PEqC:
		if err := t.bounds.TightenLB(p.X, p.C, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.X, p.C, witness)

	case flatten.PGtC:
		return t.bounds.TightenLB(p.X, p.C, witness)

	case flatten.PEq:
		y := t.bounds.Get(p.Y)
		if err := t.bounds.TightenLB(p.X, y.LB, witness); err != nil {
			return err
		}
		if err := t.bounds.TightenUB(p.X, y.UB, witness); err != nil {
			return err
		}
		x := t.bounds.Get(p.X)
		if err := t.bounds.TightenLB(p.Y, x.LB, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.Y, x.UB, witness)

	case flatten.PGt:
		y := t.bounds.Get(p.Y)
		if err := t.bounds.TightenLB(p.X, y.LB, witness); err != nil {
			return err
		}
		x := t.bounds.Get(p.X)
		return t.bounds.TightenUB(p.Y, x.UB, witness)

	case flatten.PSumVV:
		sum := bounds.PropagateSum(t.bounds.Get(p.Y), t.bounds.Get(p.Z))
		if err := t.bounds.TightenLB(p.X, sum.LB, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.X, sum.UB, witness)

	case flatten.PSumVC:
		y := t.bounds.Get(p.Y)
		if err := t.bounds.TightenLB(p.X, y.LB+p.C, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.X, y.UB+p.C, witness)

	case flatten.PMulCV:
		y := t.bounds.Get(p.Y)
		lo, hi := p.C*y.LB, p.C*y.UB
		if lo > hi {
			lo, hi = hi, lo
		}
		if err := t.bounds.TightenLB(p.X, lo, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.X, hi, witness)

	case flatten.PMulVV:
		prod := bounds.PropagateProduct(t.bounds.Get(p.Y), t.bounds.Get(p.Z))
		if err := t.bounds.TightenLB(p.X, prod.LB, witness); err != nil {
			return err
		}
		return t.bounds.TightenUB(p.X, prod.UB, witness)

	case flatten.PPowVC:
		// Interval exponentiation for a non-unit integer power needs
		// sign-case analysis the bounds.Interval pair doesn't carry
		// (odd vs even exponent flips which corner is extremal); left
		// unconstrained rather than propagating an unsound interval.
		return nil
	}
	return nil
}

// conflictClause builds the learnt conflict clause for a failed
// tightening: the negation of the witnessing literal (if any) unioned
// with the negation of every bound-justification literal recorded on
// the primitive's operand variables, the same "union the bound
// justifications" rule theory/linear's Infeasible documents.
func (t *Theory) conflictClause(p flatten.Primitive, witness lit.Lit) *sat.Clause {
	seen := make(map[lit.Lit]bool)
	var lits []lit.Lit
	add := func(l lit.Lit) {
		if l.IsNil() || seen[l] {
			return
		}
		seen[l] = true
		lits = append(lits, l.Negate())
	}
	add(witness)
	for _, v := range []*term.Var{p.X, p.Y, p.Z} {
		if v == nil {
			continue
		}
		iv := t.bounds.Get(v)
		add(iv.LBReason)
		add(iv.UBReason)
	}
	return &sat.Clause{Lits: lits}
}
