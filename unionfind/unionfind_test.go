package unionfind

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

func TestDerefOnFreshVarIsItself(t *testing.T) {
	x := term.NewVar("x")
	require.Same(t, x, Deref(x))
}

func TestBindUnifiesDeref(t *testing.T) {
	x, y := term.NewVar("x"), term.NewVar("y")
	tr := &core.Trail{}
	require.NoError(t, Bind(tr, lit.Of(1, true), x, y))
	require.Same(t, Deref(x), Deref(y))
}

func TestBindUndoRestoresSeparateRoots(t *testing.T) {
	x, y := term.NewVar("x"), term.NewVar("y")
	tr := &core.Trail{}
	mark := tr.Mark()
	require.NoError(t, Bind(tr, lit.Of(1, true), x, y))
	require.Same(t, Deref(x), Deref(y))

	tr.UndoTo(mark)
	require.NotSame(t, Deref(x), Deref(y))
}

func TestMatchFindsJustificationAfterBind(t *testing.T) {
	x, y := term.NewVar("x"), term.NewVar("y")
	tr := &core.Trail{}
	require.NoError(t, Bind(tr, lit.Of(1, true), x, y))

	lits, ok := Match(x, y, nil)
	require.True(t, ok)
	require.NotEmpty(t, lits)
}

func TestMatchFailsForUnrelatedVars(t *testing.T) {
	x, y := term.NewVar("x"), term.NewVar("y")
	_, ok := Match(x, y, nil)
	require.False(t, ok)
}

func TestBindRebindsNonRepresentativeArgument(t *testing.T) {
	a, b, c := term.NewVar("a"), term.NewVar("b"), term.NewVar("c")
	tr := &core.Trail{}

	// a=b first, so a is no longer its own representative; binding a=c
	// next must reverse a's path to its root rather than leaving a
	// stranded as a singleton.
	require.NoError(t, Bind(tr, lit.Of(1, true), a, b))
	require.NoError(t, Bind(tr, lit.Of(2, true), a, c))

	require.Same(t, Deref(a), Deref(c))
	require.Same(t, Deref(b), Deref(c))

	lits, ok := Match(b, c, nil)
	require.True(t, ok)
	require.Len(t, lits, 2)
}

func TestBindRebindUndoRestoresChain(t *testing.T) {
	a, b, c := term.NewVar("a"), term.NewVar("b"), term.NewVar("c")
	tr := &core.Trail{}

	require.NoError(t, Bind(tr, lit.Of(1, true), a, b))
	mark := tr.Mark()
	require.NoError(t, Bind(tr, lit.Of(2, true), a, c))
	require.Same(t, Deref(a), Deref(c))

	tr.UndoTo(mark)
	require.Same(t, Deref(a), Deref(b))
	require.NotSame(t, Deref(a), Deref(c))
}

func TestBindTransplantsConstraints(t *testing.T) {
	x, y := term.NewVar("x"), term.NewVar("y")
	x.Constraints = []uint64{1, 2}
	tr := &core.Trail{}
	require.NoError(t, Bind(tr, lit.Of(1, true), x, y))

	root := Deref(x)
	require.Contains(t, root.Constraints, uint64(1))
	require.Contains(t, root.Constraints, uint64(2))
}
