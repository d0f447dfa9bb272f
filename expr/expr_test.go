package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/term"
)

func varLeaf(name string) Expr { return Var(term.NewVar(name)) }

// TestConjunctionCommutative is the spec.md §8 testable property: "A
// conjunction a ∧ b constructed in expression form equals (as
// multisets) the conjunction built in the reverse order."
func TestConjunctionCommutative(t *testing.T) {
	a, b := varLeaf("a"), varLeaf("b")

	forward := And(a, b)
	backward := And(b, a)

	if diff := cmp.Diff(forward.Operands(), backward.Operands(), cmp.Comparer(func(x, y Expr) bool {
		return x.String() == y.String()
	})); diff != "" {
		t.Fatalf("AC conjunction not order-independent (-forward +backward):\n%s", diff)
	}
}

func TestConjunctionCollapsesOnNegation(t *testing.T) {
	a := varLeaf("a")
	require.True(t, And(a, Not(a)).IsFalse())
	require.True(t, Or(a, Not(a)).IsTrue())
}

func TestSumMergesCoefficients(t *testing.T) {
	x := varLeaf("x")
	sum := Add(x, x, Number(3), Number(-1))
	require.Equal(t, "(2*L:0#const + 2*L:x)", sum.String())
}

func TestProductFactorsConstant(t *testing.T) {
	x := varLeaf("x")
	p := Mul(Number(4), Pow(x, 2))
	require.Contains(t, p.String(), "x^2")
}

func TestCompareCanonicalForm(t *testing.T) {
	x, y := varLeaf("x"), varLeaf("y")
	c := Lt(x, y)
	require.Equal(t, KindCompare, c.Kind())
	require.Equal(t, CompareLt, c.CompareOp())
}
