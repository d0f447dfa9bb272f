// Package domain implements the finite-domain expansion theory of
// spec.md §4.8: dom(x, lb, ub) expands once and irrevocably into a
// chain of LB/EQ_C constraints and the implicational clauses linking
// them, the "one-shot constraint expansion" that package propagate's
// Annihilate lifecycle exists for.
package domain

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

// Literal roles for the generated encoding: LB(x,k) true means x>=k;
// EQC(x,k) true means x==k.
type EncodedVar struct {
	Var    *term.Var
	Lo, Hi int
	LBLits  []lit.Lit // LBLits[i] is LB(x, Lo+i), indexed 0..Hi-Lo
	EQCLits []lit.Lit // EQCLits[i] is EQC(x, Lo+i)
}

// ClauseSink receives the implicational clauses the expansion
// produces; the backend package supplies the real sink that posts
// them into the SAT clause database.
type ClauseSink interface {
	AddClause(lits []lit.Lit)
	FreshLit() lit.Lit
}

// Expand builds the encoding for dom(x, lo, hi), posting:
//   - LB(x,k) -> LB(x,k-1) for each k (monotonic lower-bound chain)
//   - EQC(x,k) <-> LB(x,k) & ~LB(x,k+1) (value selection)
//   - exactly one EQC(x,k) holds (at-least-one and at-most-one via
//     the LB chain, so no extra at-most-one clause is required)
func Expand(sink ClauseSink, x *term.Var, lo, hi int) (*EncodedVar, error) {
	if hi < lo {
		return nil, core.Errorf(core.KindRange, "domain", "Expand",
			"empty domain [%d,%d] for %s", lo, hi, x.Name)
	}
	n := hi - lo + 1
	ev := &EncodedVar{Var: x, Lo: lo, Hi: hi, LBLits: make([]lit.Lit, n), EQCLits: make([]lit.Lit, n)}

	for i := 0; i < n; i++ {
		ev.LBLits[i] = sink.FreshLit()
	}
	// LB(x,lo) is trivially true; LB chain is monotone decreasing in i.
	sink.AddClause([]lit.Lit{ev.LBLits[0]})
	for i := 1; i < n; i++ {
		// LB(x,k) -> LB(x,k-1)
		sink.AddClause([]lit.Lit{ev.LBLits[i].Negate(), ev.LBLits[i-1]})
	}

	for i := 0; i < n; i++ {
		ev.EQCLits[i] = sink.FreshLit()
		lbHere := ev.LBLits[i]
		var notLBNext lit.Lit
		if i+1 < n {
			notLBNext = ev.LBLits[i+1].Negate()
		}
		// EQC(x,k) -> LB(x,k)
		sink.AddClause([]lit.Lit{ev.EQCLits[i].Negate(), lbHere})
		if i+1 < n {
			// EQC(x,k) -> ~LB(x,k+1)
			sink.AddClause([]lit.Lit{ev.EQCLits[i].Negate(), notLBNext})
			// LB(x,k) & ~LB(x,k+1) -> EQC(x,k)
			sink.AddClause([]lit.Lit{lbHere.Negate(), ev.LBLits[i+1], ev.EQCLits[i]})
		} else {
			// LB(x,hi) -> EQC(x,hi)
			sink.AddClause([]lit.Lit{lbHere.Negate(), ev.EQCLits[i]})
		}
	}
	return ev, nil
}

// LBAt returns the LB(x,k) literal, or the nil literal if k is
// outside [lo,hi].
func (ev *EncodedVar) LBAt(k int) lit.Lit {
	if k < ev.Lo || k > ev.Hi {
		return lit.Lit(0)
	}
	return ev.LBLits[k-ev.Lo]
}

// EQCAt returns the EQC(x,k) literal.
func (ev *EncodedVar) EQCAt(k int) lit.Lit {
	if k < ev.Lo || k > ev.Hi {
		return lit.Lit(0)
	}
	return ev.EQCLits[k-ev.Lo]
}
