package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/smchr/term"
)

func TestApplyRewritesBottomUpToFixedPoint(t *testing.T) {
	double := term.Intern("double", 1)
	mul := term.Intern("*", 2)

	table := NewTable()
	x := term.NewVar("X")
	err := table.Add(&Rule{
		Pattern: term.Func(double, term.Var(x)),
		Body:    term.Func(mul, term.Num(2), term.Var(x)),
	})
	require.NoError(t, err)

	pass := NewPass(table, 64)
	in := term.Func(double, term.Func(double, term.Num(3)))
	out, err := pass.Apply(in)
	require.NoError(t, err)

	want := term.Func(mul, term.Num(2), term.Func(mul, term.Num(2), term.Num(3)))
	require.True(t, out.Equal(want), "got %s", out)
}

func TestApplyLeavesUnmatchedTermsUnchanged(t *testing.T) {
	table := NewTable()
	pass := NewPass(table, 64)

	leaf := term.Num(5)
	out, err := pass.Apply(leaf)
	require.NoError(t, err)
	require.True(t, out.Equal(leaf))
}

func TestAddRejectsHeadlessPattern(t *testing.T) {
	table := NewTable()
	x := term.NewVar("X")
	err := table.Add(&Rule{Pattern: term.Var(x), Body: term.Var(x)})
	require.Error(t, err)
}
