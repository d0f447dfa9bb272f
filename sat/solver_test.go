package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
)

func newTestSolver(n int) *Solver {
	s := NewSolver(core.DefaultOptions())
	for i := 0; i < n; i++ {
		s.NewVar()
	}
	return s
}

func TestUnitPropagationChain(t *testing.T) {
	s := newTestSolver(3)
	x1, x2, x3 := 1, 2, 3

	s.AddClause([]lit.Lit{lit.Of(x1, true)})
	s.AddClause([]lit.Lit{lit.Of(x1, false), lit.Of(x2, true)})
	s.AddClause([]lit.Lit{lit.Of(x2, false), lit.Of(x3, true)})

	require.Equal(t, StatusSAT, s.Solve())
	require.Equal(t, True, s.Value(lit.Of(x1, true)))
	require.Equal(t, True, s.Value(lit.Of(x2, true)))
	require.Equal(t, True, s.Value(lit.Of(x3, true)))
}

func TestConflictingUnitClausesSetUnsat(t *testing.T) {
	s := newTestSolver(1)
	x1 := 1
	s.AddClause([]lit.Lit{lit.Of(x1, true)})
	s.AddClause([]lit.Lit{lit.Of(x1, false)})

	require.Equal(t, StatusUNSAT, s.Solve())
}

func TestBinaryChoiceIsSatisfiable(t *testing.T) {
	s := newTestSolver(2)
	a, b := 1, 2
	s.AddClause([]lit.Lit{lit.Of(a, true), lit.Of(b, true)})

	status := s.Solve()
	require.Equal(t, StatusSAT, status)
	require.True(t, s.Value(lit.Of(a, true)) == True || s.Value(lit.Of(b, true)) == True)
}

func TestTautologyIsDropped(t *testing.T) {
	s := newTestSolver(1)
	a := 1
	s.AddClause([]lit.Lit{lit.Of(a, true), lit.Of(a, false)})
	require.Empty(t, s.clauses)
	require.False(t, s.unsat)
}

func TestLubySequenceMatchesKnownPrefix(t *testing.T) {
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1}
	for i, w := range want {
		require.Equal(t, w, luby(int64(i)), "luby(%d)", i)
	}
}
