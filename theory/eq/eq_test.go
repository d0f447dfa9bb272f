package eq

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

func TestDecideTrueBindsVars(t *testing.T) {
	tr := &core.Trail{}
	th := New(tr)
	x, y := term.NewVar("x"), term.NewVar("y")

	require.NoError(t, th.DecideTrue(lit.Of(1, true), x, y))
	_, ok := th.DecideFalse(x, y)
	require.True(t, ok, "bound vars should be detected as equal")
}

func TestDecideFalseNoContradictionForUnrelatedVars(t *testing.T) {
	tr := &core.Trail{}
	th := New(tr)
	x, y := term.NewVar("x"), term.NewVar("y")

	_, ok := th.DecideFalse(x, y)
	require.False(t, ok)
}
