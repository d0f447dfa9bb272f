package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

type fakeSink struct {
	clauses [][]lit.Lit
	next    int
}

func (f *fakeSink) AddClause(lits []lit.Lit) { f.clauses = append(f.clauses, lits) }
func (f *fakeSink) FreshLit() lit.Lit {
	f.next++
	return lit.Of(f.next, true)
}

func TestExpandProducesOneEQCLitPerValue(t *testing.T) {
	sink := &fakeSink{}
	x := term.NewVar("x")
	ev, err := Expand(sink, x, 1, 3)
	require.NoError(t, err)
	require.Len(t, ev.EQCLits, 3)
	require.Len(t, ev.LBLits, 3)
}

func TestExpandRejectsEmptyRange(t *testing.T) {
	sink := &fakeSink{}
	x := term.NewVar("x")
	_, err := Expand(sink, x, 5, 2)
	require.Error(t, err)
}

func TestLBAtOutOfRangeIsNil(t *testing.T) {
	sink := &fakeSink{}
	x := term.NewVar("x")
	ev, err := Expand(sink, x, 1, 3)
	require.NoError(t, err)
	require.True(t, ev.LBAt(10).IsNil())
}
