package linear

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
)

func rat(n int64) *big.Rat { return big.NewRat(n, 1) }

func TestFeasibleTableauSolvesImmediately(t *testing.T) {
	tb := NewTableau(core.DefaultOptions(), 2)
	tb.AddRow(0, []*big.Rat{rat(1), rat(1)}, rat(3), nil)

	ok, reason := tb.Solve()
	require.True(t, ok)
	require.Nil(t, reason)
}

func TestViolatedRowWithNoEnteringColumnIsInfeasible(t *testing.T) {
	tb := NewTableau(core.DefaultOptions(), 1)
	tb.AddRow(0, []*big.Rat{rat(1)}, rat(-1), nil)

	ok, _ := tb.Solve()
	require.False(t, ok)
}

func TestPivotNormalizesBoundByInverse(t *testing.T) {
	tb := NewTableau(core.DefaultOptions(), 1)
	tb.AddRow(0, []*big.Rat{rat(2)}, rat(6), nil)
	require.NoError(t, tb.Pivot(0, 0))
	require.Equal(t, "3", tb.rows[0].Bound.RatString())
}
