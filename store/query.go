package store

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

// Delete removes c from the store entirely (primary bucket, every
// declared secondary lookup chain, and the bySymbol index), recording
// a trail entry that re-installs it on backtrack. This is the CHR
// VM's DELETE opcode (spec.md §4.7): a head marked for removal leaves
// the store the moment its rule fires, reversibly.
func (st *Store) Delete(trail *core.Trail, c *Constraint) {
	sym := st.symbolFor(c.Symbol)
	st.unchain(st.primary, c.key.bucket(), c)
	for i := range sym.Lookups {
		lk := lookupKey(c.Symbol, sym.Lookups[i], c.Args)
		st.unchain(st.secondary[lookupName(c.Symbol, i)], lk.bucket(), c)
	}
	st.removeFromSymbolIndex(c)

	trail.Push(func() {
		st.chainInsert(st.primary, c.key.bucket(), c)
		for i, subset := range sym.Lookups {
			lk := lookupKey(c.Symbol, subset, c.Args)
			m := st.secondary[lookupName(c.Symbol, i)]
			if m == nil {
				m = make(map[uint64]*Constraint)
				st.secondary[lookupName(c.Symbol, i)] = m
			}
			st.chainInsert(m, lk.bucket(), c)
		}
		st.bySymbol[c.Symbol] = append(st.bySymbol[c.Symbol], c)
	})
}

func (st *Store) removeFromSymbolIndex(c *Constraint) {
	list := st.bySymbol[c.Symbol]
	for i, other := range list {
		if other == c {
			st.bySymbol[c.Symbol] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// InsertTrailed is Insert plus a trail entry that removes the
// constraint again on backtrack, for callers (package chr's PROP
// opcode) that post new constraints from within a single propagator
// wake and need the post undone if that wake is later rolled back.
func (st *Store) InsertTrailed(trail *core.Trail, sym *term.Atom, args []term.Term) *Constraint {
	c := st.Insert(sym, args)
	trail.Push(func() {
		st.unchain(st.primary, c.key.bucket(), c)
		s := st.symbolFor(c.Symbol)
		for i := range s.Lookups {
			lk := lookupKey(c.Symbol, s.Lookups[i], c.Args)
			st.unchain(st.secondary[lookupName(c.Symbol, i)], lk.bucket(), c)
		}
		st.removeFromSymbolIndex(c)
	})
	return c
}

// Candidates enumerates every stored constraint for sym whose
// arguments at `positions` equal `values` (same order), the
// partially-bound lookup the CHR VM's LOOKUP opcode needs when
// matching a rule's partner heads. It is a linear scan of the
// symbol's constraints rather than a hash probe: the declared
// secondary lookups (Symbol.Lookups) are an exact-subset index built
// for Get/Move's single-candidate case, and reusing them for
// arbitrary partial binds would require reconstructing a full args
// slice for positions the caller never bound.
func (st *Store) Candidates(sym *term.Atom, positions []int, values []term.Term) []*Constraint {
	var out []*Constraint
	for _, c := range st.bySymbol[sym] {
		match := true
		for j, pos := range positions {
			if pos >= len(c.Args) || !c.Args[pos].Equal(values[j]) {
				match = false
				break
			}
		}
		if match {
			out = append(out, c)
		}
	}
	return out
}
