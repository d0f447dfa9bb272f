package flatten

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/term"
)

func varLeaf(name string) expr.Expr { return expr.Var(term.NewVar(name)) }

func TestFlattenSumProducesBinaryPrimitives(t *testing.T) {
	x, y, z := varLeaf("x"), varLeaf("y"), varLeaf("z")
	sum := expr.Add(x, y, z)

	f := New()
	result, err := f.Var(sum)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, f.Primitives, 2)
	for _, p := range f.Primitives {
		require.Equal(t, PSumVV, p.Kind)
	}
}

func TestFlattenSharesCommonSubexpression(t *testing.T) {
	x, y := varLeaf("x"), varLeaf("y")
	sub := expr.Add(x, y)

	f := New()
	v1, err := f.Var(sub)
	require.NoError(t, err)
	v2, err := f.Var(sub)
	require.NoError(t, err)

	require.Same(t, v1, v2)
	require.Len(t, f.Primitives, 1, "second flatten of the same sub-expression must reuse the memoised aux var")
}

func TestFlattenScaledTermEmitsMulPrimitive(t *testing.T) {
	x := varLeaf("x")
	scaled := expr.Mul(expr.Number(3), x)
	withOffset := expr.Add(scaled, expr.Number(1))

	f := New()
	_, err := f.Var(withOffset)
	require.NoError(t, err)

	var sawMul bool
	for _, p := range f.Primitives {
		if p.Kind == PMulCV {
			sawMul = true
			require.Equal(t, 3.0, p.C)
		}
	}
	require.True(t, sawMul, "coefficient != 1 must flatten through an x = c * y primitive")
}

func TestFlattenCompareEmitsRelationalPrimitive(t *testing.T) {
	x, y := varLeaf("x"), varLeaf("y")
	cmp := expr.Lt(x, y)

	f := New()
	reified := term.NewVar("r")
	p, err := f.Compare(cmp, reified)
	require.NoError(t, err)
	require.Equal(t, PGtC, p.Kind)
	require.Equal(t, 0.0, p.C)
	require.Same(t, reified, p.Reified)
}

func TestFlattenRejectsNonArithmeticKind(t *testing.T) {
	a, b := varLeaf("a"), varLeaf("b")
	conj := expr.And(a, b)

	f := New()
	_, err := f.Var(conj)
	require.Error(t, err)
}
