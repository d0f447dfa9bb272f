package flatten

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/expr"
)

func TestEncodeConjunctionProducesDefiningClauses(t *testing.T) {
	a, b := varLeaf("a"), varLeaf("b")
	formula := expr.And(a, b)

	enc := NewEncoder()
	cnf, err := enc.Encode(formula)
	require.NoError(t, err)

	// aux<->(a&b) needs: (~aux|a), (~aux|b), (aux|~a|~b), plus the
	// top-level unit clause asserting aux.
	require.Len(t, cnf.Clauses, 4)
}

func TestEncodeSharesAuxiliaryForRepeatedSubformula(t *testing.T) {
	a, b := varLeaf("a"), varLeaf("b")
	sub := expr.And(a, b)
	formula := expr.Or(sub, sub)

	enc := NewEncoder()
	cnf, err := enc.Encode(formula)
	require.NoError(t, err)
	// The repeated And(a,b) is defined once: three defining clauses plus
	// the top-level unit clause.
	require.Len(t, cnf.Clauses, 4)
}

func TestEncodeCompareProducesReifiedPrimitive(t *testing.T) {
	x, y := varLeaf("x"), varLeaf("y")
	formula := expr.Lt(x, y)

	enc := NewEncoder()
	cnf, err := enc.Encode(formula)
	require.NoError(t, err)
	// y - x flattens to -1*x and a sum before the reified "> 0".
	require.Len(t, cnf.Primitives, 3)
	require.NotNil(t, cnf.Primitives[2].Reified)
}

func TestEncodeRejectsArithmeticAtTopLevel(t *testing.T) {
	x := varLeaf("x")
	enc := NewEncoder()
	_, err := enc.Encode(expr.Add(x, expr.Number(1)))
	require.Error(t, err)
}
