package store

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

// Move implements the variable-rebinding operation of spec.md §4.3:
// when x is unified with y, every constraint attached to x's old key
// must be re-indexed under y's identity. Move removes c from its old
// primary and secondary buckets and re-inserts it under the keys
// recomputed from newArgs, merging with any pre-existing sibling
// chain. The motion is recorded on trail so backtracking restores the
// old position (including the spliced-out sub-list of any merged
// target, which Go's GC-backed chaining makes cheap to just
// re-splice rather than literally restore byte-for-byte).
func (st *Store) Move(trail *core.Trail, c *Constraint, newArgs []term.Term) {
	sym := st.symbolFor(c.Symbol)
	oldKey := c.key
	oldArgs := c.Args

	st.unchain(st.primary, oldKey.bucket(), c)
	for i := range sym.Lookups {
		lk := lookupKey(c.Symbol, sym.Lookups[i], oldArgs)
		st.unchain(st.secondary[lookupName(c.Symbol, i)], lk.bucket(), c)
	}

	normalized := normalize(sym, newArgs)
	newKey := hashKey(sym, normalized)
	c.key = newKey
	c.Args = normalized
	st.chainInsert(st.primary, newKey.bucket(), c)
	for i, subset := range sym.Lookups {
		lk := lookupKey(c.Symbol, subset, normalized)
		m := st.secondary[lookupName(c.Symbol, i)]
		if m == nil {
			m = make(map[uint64]*Constraint)
			st.secondary[lookupName(c.Symbol, i)] = m
		}
		st.chainInsert(m, lk.bucket(), c)
	}

	trail.Push(func() {
		st.unchain(st.primary, newKey.bucket(), c)
		for i := range sym.Lookups {
			lk := lookupKey(c.Symbol, sym.Lookups[i], normalized)
			st.unchain(st.secondary[lookupName(c.Symbol, i)], lk.bucket(), c)
		}
		c.key = oldKey
		c.Args = oldArgs
		st.chainInsert(st.primary, oldKey.bucket(), c)
		for i, subset := range sym.Lookups {
			lk := lookupKey(c.Symbol, subset, oldArgs)
			st.chainInsert(st.secondary[lookupName(c.Symbol, i)], lk.bucket(), c)
		}
	})
}

// unchain splices c out of the linked list at m[bucket].
func (st *Store) unchain(m map[uint64]*Constraint, bucket uint64, c *Constraint) {
	head := m[bucket]
	if head == c {
		m[bucket] = c.next
		c.next = nil
		return
	}
	for p := head; p != nil; p = p.next {
		if p.next == c {
			p.next = c.next
			c.next = nil
			return
		}
	}
}
