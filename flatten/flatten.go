// Package flatten implements the flatten pass from spec.md §2.4 and
// §4.6: decomposing arithmetic expressions into the canonical primitive
// shapes (x=y, x>y, x=c, x>c, x=y+z, x=y+c, x=c*y, x=y*z, x=y^c),
// introducing fresh auxiliary variables for shared sub-expressions via
// a memo table.
package flatten

import (
	"fmt"
	"math/big"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/term"
)

// PrimitiveKind enumerates the canonical shapes spec.md §4.6 lists.
type PrimitiveKind int

const (
	PEq     PrimitiveKind = iota // x = y
	PGt                          // x > y
	PEqC                         // x = c
	PGtC                         // x > c
	PSumVV                       // x = y + z
	PSumVC                       // x = y + c
	PMulCV                       // x = c * y
	PMulVV                       // x = y * z
	PPowVC                       // x = y^c
)

// Primitive is one flattened n-ary relation. A non-nil Reified makes
// the primitive a reified constraint: Reified holds iff the relation
// holds, rather than the relation being enforced unconditionally.
type Primitive struct {
	Kind    PrimitiveKind
	X, Y, Z *term.Var
	C       float64
	Reified *term.Var
}

func (p Primitive) String() string {
	switch p.Kind {
	case PEq:
		return fmt.Sprintf("%s = %s", p.X.Name, p.Y.Name)
	case PGt:
		return fmt.Sprintf("%s > %s", p.X.Name, p.Y.Name)
	case PEqC:
		return fmt.Sprintf("%s = %g", p.X.Name, p.C)
	case PGtC:
		return fmt.Sprintf("%s > %g", p.X.Name, p.C)
	case PSumVV:
		return fmt.Sprintf("%s = %s + %s", p.X.Name, p.Y.Name, p.Z.Name)
	case PSumVC:
		return fmt.Sprintf("%s = %s + %g", p.X.Name, p.Y.Name, p.C)
	case PMulCV:
		return fmt.Sprintf("%s = %g * %s", p.X.Name, p.C, p.Y.Name)
	case PMulVV:
		return fmt.Sprintf("%s = %s * %s", p.X.Name, p.Y.Name, p.Z.Name)
	case PPowVC:
		return fmt.Sprintf("%s = %s ^ %g", p.X.Name, p.Y.Name, p.C)
	}
	return "<invalid primitive>"
}

// Flattener holds the common-sub-expression memo table across one
// flatten pass (spec.md: "Common sub-expressions share auxiliary
// variables via a memo table keyed by expression").
type Flattener struct {
	memo       map[string]*term.Var
	Primitives []Primitive
}

func New() *Flattener {
	return &Flattener{memo: make(map[string]*term.Var)}
}

// Var flattens an arithmetic expr.Expr down to a single variable,
// emitting auxiliary Primitives as needed. Non-arithmetic leaves
// (already a term.Var) return directly with no new primitive.
func (f *Flattener) Var(e expr.Expr) (*term.Var, error) {
	memoKey := e.String()
	if v, ok := f.memo[memoKey]; ok {
		return v, nil
	}

	v, err := f.flattenInto(e)
	if err != nil {
		return nil, err
	}
	f.memo[memoKey] = v
	return v, nil
}

func (f *Flattener) flattenInto(e expr.Expr) (*term.Var, error) {
	switch e.Kind() {
	case expr.KindLeaf:
		leaf := e.Leaf()
		if leaf.Tag() == term.TagVar {
			return leaf.AsVar(), nil
		}
		if n, ok := e.AsNumber(); ok {
			aux := term.NewVar("")
			f.emit(Primitive{Kind: PEqC, X: aux, C: n})
			return aux, nil
		}
		return nil, core.Errorf(core.KindInternal, "flatten", "flattenInto",
			"cannot flatten non-numeric, non-variable leaf %s", leaf)

	case expr.KindSum:
		return f.flattenSum(e)

	case expr.KindProduct:
		return f.flattenProduct(e)

	case expr.KindCompare:
		return nil, core.Errorf(core.KindInternal, "flatten", "flattenInto",
			"comparisons flatten via Compare, not Var")

	default:
		return nil, core.Errorf(core.KindInternal, "flatten", "flattenInto",
			"cannot flatten Boolean expr %s as arithmetic", e)
	}
}

// flattenSum reduces an n-ary AC sum to a left fold of binary
// x = y + z primitives over the scaled operands (a constant term is
// an operand too, flattened through x = c).
func (f *Flattener) flattenSum(e expr.Expr) (*term.Var, error) {
	operands := e.Operands()
	if len(operands) == 0 {
		aux := term.NewVar("")
		f.emit(Primitive{Kind: PEqC, X: aux, C: 0})
		return aux, nil
	}

	acc, err := f.scaledOperand(e, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(operands); i++ {
		rhs, err := f.scaledOperand(e, i)
		if err != nil {
			return nil, err
		}
		sum := term.NewVar("")
		f.emit(Primitive{Kind: PSumVV, X: sum, Y: acc, Z: rhs})
		acc = sum
	}
	return acc, nil
}

// scaledOperand flattens operand i of a sum, applying its rational
// coefficient via an auxiliary x = c * y primitive when the
// coefficient is not 1.
func (f *Flattener) scaledOperand(sum expr.Expr, i int) (*term.Var, error) {
	operand := sum.Operands()[i]
	coeff := sum.Coefficient(i)
	v, err := f.Var(operand)
	if err != nil {
		return nil, err
	}
	if coeff.Cmp(big.NewRat(1, 1)) == 0 {
		return v, nil
	}
	scale, _ := coeff.Float64()
	aux := term.NewVar("")
	f.emit(Primitive{Kind: PMulCV, X: aux, C: scale, Y: v})
	return aux, nil
}

// flattenProduct reduces an n-ary AC product to a left fold of binary
// x = y * z primitives (an operand with an exponent other than 1 is
// first flattened through one x = y^n primitive).
func (f *Flattener) flattenProduct(e expr.Expr) (*term.Var, error) {
	operands := e.Operands()
	acc, err := f.powOperand(e, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(operands); i++ {
		rhs, err := f.powOperand(e, i)
		if err != nil {
			return nil, err
		}
		prod := term.NewVar("")
		f.emit(Primitive{Kind: PMulVV, X: prod, Y: acc, Z: rhs})
		acc = prod
	}
	return acc, nil
}

func (f *Flattener) powOperand(prod expr.Expr, i int) (*term.Var, error) {
	operand := prod.Operands()[i]
	exp := prod.Exponent(i)
	v, err := f.Var(operand)
	if err != nil {
		return nil, err
	}
	if exp == 1 {
		return v, nil
	}
	aux := term.NewVar("")
	f.emit(Primitive{Kind: PPowVC, X: aux, Y: v, C: float64(exp)})
	return aux, nil
}

// Compare flattens a CompareEq/CompareLt expr to its canonical "0 = d"
// or "0 < d" primitive (spec.md §4.5/§4.6), reified against the given
// Boolean atom: reified holds iff the comparison holds. Pass a nil
// reified var for a hard (unconditionally enforced) comparison.
func (f *Flattener) Compare(e expr.Expr, reified *term.Var) (Primitive, error) {
	if e.Kind() != expr.KindCompare {
		return Primitive{}, core.Errorf(core.KindInternal, "flatten", "Compare",
			"expected a comparison, got %s", e)
	}
	diff := e.Diff()
	x, err := f.Var(*diff)
	if err != nil {
		return Primitive{}, err
	}
	kind := PEqC
	if e.CompareOp() == expr.CompareLt {
		kind = PGtC
	}
	p := Primitive{Kind: kind, X: x, C: 0, Reified: reified}
	f.emit(p)
	return p, nil
}

func (f *Flattener) emit(p Primitive) { f.Primitives = append(f.Primitives, p) }
