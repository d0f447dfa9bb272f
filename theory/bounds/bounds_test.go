package bounds

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

func TestFreshVarHasUnboundedInterval(t *testing.T) {
	s := NewStore()
	v := term.NewVar("x")
	iv := s.Get(v)
	require.True(t, iv.LB < -1e300)
	require.True(t, iv.UB > 1e300)
}

func TestTightenLBAndUBNarrowInterval(t *testing.T) {
	s := NewStore()
	v := term.NewVar("x")
	require.NoError(t, s.TightenLB(v, 3, lit.Of(1, true)))
	require.NoError(t, s.TightenUB(v, 9, lit.Of(2, true)))

	iv := s.Get(v)
	require.Equal(t, 3.0, iv.LB)
	require.Equal(t, 9.0, iv.UB)
}

func TestTightenPastOppositeBoundErrors(t *testing.T) {
	s := NewStore()
	v := term.NewVar("x")
	require.NoError(t, s.TightenUB(v, 5, lit.Of(1, true)))
	require.Error(t, s.TightenLB(v, 10, lit.Of(2, true)))
}

func TestPropagateProductTakesCornerExtremes(t *testing.T) {
	x := Interval{LB: -2, UB: 3}
	y := Interval{LB: -1, UB: 4}
	z := PropagateProduct(x, y)
	require.Equal(t, -8.0, z.LB)
	require.Equal(t, 12.0, z.UB)
}
