package heaps

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/term"
)

func TestAssignMakesInTrue(t *testing.T) {
	h := NewHeap()
	x, y := term.NewVar("x"), term.NewVar("y")
	h.Alloc(x)
	h.Alloc(y)
	h.Assign(x, y)

	require.True(t, h.In(x, y))
}

func TestSepTrueForDisjointCells(t *testing.T) {
	h := NewHeap()
	x, y := term.NewVar("x"), term.NewVar("y")
	h.Alloc(x)
	h.Alloc(y)

	require.True(t, h.Sep(x, y))
}

func TestSubTrueWhenXReachesSubsetOfY(t *testing.T) {
	h := NewHeap()
	x, y, z := term.NewVar("x"), term.NewVar("y"), term.NewVar("z")
	h.Alloc(x)
	h.Alloc(y)
	h.Alloc(z)
	h.Assign(y, z)
	h.Assign(x, z)

	require.True(t, h.Sub(x, y))
}
