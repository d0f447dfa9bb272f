// Package bounds implements the interval-arithmetic bounds theory of
// spec.md §4.8: each numeric variable carries [lb, ub] and the
// constraints that witness them, propagated through + and * under
// <= and = via the canonical LB predicate.
package bounds

import (
	"math"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

// Interval is a variable's current [lb, ub], plus the literals
// justifying each bound (nil before any tightening has happened).
type Interval struct {
	LB, UB       float64
	LBReason     lit.Lit
	UBReason     lit.Lit
}

func full() Interval { return Interval{LB: math.Inf(-1), UB: math.Inf(1)} }

// Store tracks one Interval per variable, keyed by identity.
type Store struct {
	intervals map[*term.Var]*Interval
}

func NewStore() *Store { return &Store{intervals: make(map[*term.Var]*Interval)} }

func (s *Store) intervalFor(v *term.Var) *Interval {
	iv, ok := s.intervals[v]
	if !ok {
		f := full()
		iv = &f
		s.intervals[v] = iv
	}
	return iv
}

func (s *Store) Get(v *term.Var) Interval { return *s.intervalFor(v) }

// TightenLB raises v's lower bound to at least lb, justified by l.
// Returns an error (KindInternal, fatal per spec.md §7) if this
// crosses the current upper bound.
func (s *Store) TightenLB(v *term.Var, lb float64, l lit.Lit) error {
	iv := s.intervalFor(v)
	if lb <= iv.LB {
		return nil
	}
	if lb > iv.UB {
		return core.Errorf(core.KindInternal, "bounds", "TightenLB",
			"lower bound %g exceeds upper bound %g for %s", lb, iv.UB, v.Name)
	}
	iv.LB, iv.LBReason = lb, l
	return nil
}

// TightenUB lowers v's upper bound to at most ub, justified by l.
func (s *Store) TightenUB(v *term.Var, ub float64, l lit.Lit) error {
	iv := s.intervalFor(v)
	if ub >= iv.UB {
		return nil
	}
	if ub < iv.LB {
		return core.Errorf(core.KindInternal, "bounds", "TightenUB",
			"upper bound %g below lower bound %g for %s", ub, iv.LB, v.Name)
	}
	iv.UB, iv.UBReason = ub, l
	return nil
}

// PropagateSum tightens z's interval from x + y = z (spec.md §4.8
// "interval arithmetic for +"), returning the new interval for z.
func PropagateSum(x, y Interval) Interval {
	return Interval{LB: x.LB + y.LB, UB: x.UB + y.UB}
}

// PropagateProduct tightens z's interval from x * y = z, taking the
// min/max over the four corner products (the standard interval
// multiplication rule).
func PropagateProduct(x, y Interval) Interval {
	corners := [4]float64{x.LB * y.LB, x.LB * y.UB, x.UB * y.LB, x.UB * y.UB}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return Interval{LB: lo, UB: hi}
}

// Unsatisfiable reports whether the interval is empty.
func (iv Interval) Unsatisfiable() bool { return iv.LB > iv.UB }
