package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/flatten"
	"github.com/xDarkicex/smchr/sat"
	"github.com/xDarkicex/smchr/term"
)

func TestBuildPostsPlainBooleanClauses(t *testing.T) {
	a := term.NewVar("a")
	b := term.NewVar("b")
	formula := expr.Or(expr.Var(a), expr.Var(b))

	enc := flatten.NewEncoder()
	cnf, err := enc.Encode(formula)
	require.NoError(t, err)

	solver := sat.NewSolver(core.DefaultOptions())
	Build(cnf, solver)

	require.Equal(t, sat.StatusSAT, solver.Solve())
}

func TestBuildEnforcesArithmeticPrimitive(t *testing.T) {
	x := term.NewVar("x")
	// x = 3 + 4, a hard (unreified) arithmetic fact with no Boolean
	// choice at all: the theory alone must detect it is consistent.
	sumExpr := expr.Add(expr.Number(3), expr.Number(4))
	flat := flatten.New()
	seven, err := flat.Var(sumExpr)
	require.NoError(t, err)

	cnf := &flatten.CNF{
		Clauses:    []flatten.Clause{{{Atom: x}}},
		Primitives: append(flat.Primitives, flatten.Primitive{Kind: flatten.PEq, X: x, Y: seven}),
	}

	solver := sat.NewSolver(core.DefaultOptions())
	b := Build(cnf, solver)
	require.Equal(t, sat.StatusSAT, solver.Solve())

	iv := b.Theory.Bounds().Get(x)
	require.Equal(t, 7.0, iv.LB)
	require.Equal(t, 7.0, iv.UB)
}

func TestBuildDetectsArithmeticConflict(t *testing.T) {
	x := term.NewVar("x")
	flat := flatten.New()
	five, err := flat.Var(expr.Number(5))
	require.NoError(t, err)

	prims := append(flat.Primitives,
		flatten.Primitive{Kind: flatten.PEqC, X: x, C: 1},
		flatten.Primitive{Kind: flatten.PEq, X: x, Y: five},
	)
	cnf := &flatten.CNF{
		Clauses:    []flatten.Clause{{{Atom: x}}},
		Primitives: prims,
	}

	solver := sat.NewSolver(core.DefaultOptions())
	Build(cnf, solver)
	require.Equal(t, sat.StatusUNSAT, solver.Solve())
}
