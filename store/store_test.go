package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

func TestInsertThenGetHits(t *testing.T) {
	st := New(core.DefaultOptions())
	sym := term.Intern("foo", 2)
	require.NoError(t, st.Declare(sym, false, nil))

	args := []term.Term{term.Num(1), term.Num(2)}
	st.Insert(sym, args)

	_, ok := st.Get(sym, args)
	require.True(t, ok)

	_, ok = st.Get(sym, []term.Term{term.Num(2), term.Num(1)})
	require.False(t, ok)
}

func TestCommutativeSymbolNormalizesArgOrder(t *testing.T) {
	st := New(core.DefaultOptions())
	sym := term.Intern("eq", 2)
	require.NoError(t, st.Declare(sym, true, nil))

	st.Insert(sym, []term.Term{term.Num(2), term.Num(1)})

	_, ok := st.Get(sym, []term.Term{term.Num(1), term.Num(2)})
	require.True(t, ok, "commutative lookup should find the reverse-constructed form")
}

func TestMoveReindexesAndTrailUndoes(t *testing.T) {
	st := New(core.DefaultOptions())
	sym := term.Intern("p", 1)
	require.NoError(t, st.Declare(sym, false, nil))

	v := term.NewVar("x")
	c := st.Insert(sym, []term.Term{term.Var(v)})

	w := term.NewVar("y")
	tr := &core.Trail{}
	mark := tr.Mark()
	st.Move(tr, c, []term.Term{term.Var(w)})

	_, ok := st.Get(sym, []term.Term{term.Var(w)})
	require.True(t, ok)
	_, ok = st.Get(sym, []term.Term{term.Var(v)})
	require.False(t, ok)

	tr.UndoTo(mark)
	_, ok = st.Get(sym, []term.Term{term.Var(v)})
	require.True(t, ok, "undo should restore the constraint under its old key")
}
