package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

func mkFunc(name string, args ...term.Term) term.Term {
	return term.Func(term.Intern(name, len(args)), args...)
}

func TestExecutePlainBooleanGoal(t *testing.T) {
	a := term.NewVar("a")
	b := term.NewVar("b")
	goal := mkFunc("or", term.Var(a), term.Var(b))

	ctx := New(core.DefaultOptions())
	res := ctx.Execute("goal.smchr", 1, goal)

	require.Equal(t, ResultSAT, res.Kind)
	require.False(t, res.Residue.IsFalse())
}

func TestExecuteArithmeticCompareGoal(t *testing.T) {
	x := term.NewVar("x")
	goal := mkFunc("=", term.Var(x), mkFunc("+", term.Num(3), term.Num(4)))

	ctx := New(core.DefaultOptions())
	res := ctx.Execute("goal.smchr", 1, goal)

	require.Equal(t, ResultSAT, res.Kind)
}

func TestExecuteUnsatGoal(t *testing.T) {
	a := term.NewVar("p")
	conj := mkFunc("and", term.Var(a), mkFunc("not", term.Var(a)))

	ctx := New(core.DefaultOptions())
	res := ctx.Execute("goal.smchr", 1, conj)

	require.Equal(t, ResultUNSAT, res.Kind)
}

func TestLoadRejectsNonCHRName(t *testing.T) {
	ctx := New(core.DefaultOptions())
	err := ctx.Load("rules.txt")
	require.Error(t, err)
}

func TestDumpReportsTrailAndStoreCounts(t *testing.T) {
	a := term.NewVar("a")
	ctx := New(core.DefaultOptions())
	ctx.Execute("goal.smchr", 1, mkFunc("or", term.Var(a), term.Var(a)))

	out := ctx.Dump()
	require.Contains(t, out, "trail:")
	require.Contains(t, out, "store:")
}
