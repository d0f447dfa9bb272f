// Package lit defines the SAT literal representation shared across the
// whole core: spec.md §3 "A SAT literal is a non-zero signed integer;
// its index identifies the variable, its sign the polarity." Having
// this as its own tiny package (rather than living in sat) lets term,
// unionfind, store and chr reference "the literal that justifies this"
// without an import cycle back into the SAT engine.
package lit

import "fmt"

// Lit is a signed literal. Lit(0) is the sentinel "no literal" used for
// level-0 facts and decision variables that have no justifying reason.
type Lit int32

// Of builds the literal for variable index v (1-based) with the given
// polarity (true = positive).
func Of(v int, positive bool) Lit {
	if positive {
		return Lit(v)
	}
	return Lit(-v)
}

// Var returns the 1-based variable index.
func (l Lit) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Sign reports whether the literal is positive.
func (l Lit) Sign() bool { return l > 0 }

// Negate returns ¬l.
func (l Lit) Negate() Lit { return -l }

// IsNil reports whether this is the "no literal" sentinel.
func (l Lit) IsNil() bool { return l == 0 }

func (l Lit) String() string {
	if l.IsNil() {
		return "<none>"
	}
	if l.Sign() {
		return fmt.Sprintf("x%d", l.Var())
	}
	return fmt.Sprintf("¬x%d", l.Var())
}
