// Package store implements the constraint store of spec.md §4.3: an
// open-hash table with linear chaining keyed by a 128-bit hash (two
// independent 64-bit halves), symbol-declared secondary lookups, and
// commutative-symbol argument normalisation.
package store

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

// Key128 is the store's 128-bit hash key, its two halves usable
// independently (one seeds the primary table, the other a checksum
// guarding against collisions across the chain).
type Key128 struct {
	Hi, Lo uint64
}

// Constraint is one stored constraint occurrence: a symbol applied to
// argument terms, with its hash key and bucket chain link.
type Constraint struct {
	Symbol *term.Atom
	Args   []term.Term
	key    Key128
	next   *Constraint // chain link within its bucket
}

// Symbol declares the properties of a store key that affect hashing
// and lookup: whether it is commutative (EQ and friends), and which
// argument-position subsets have a secondary lookup registered.
type Symbol struct {
	Commutative bool
	Lookups     [][]int // each entry is a sorted subset of argument positions
	seed        uint64
}

// Store is the open-hash table. Buckets are chained linearly; each
// secondary lookup gets its own chain, keyed the same way but over a
// restricted argument subset.
type Store struct {
	opts    core.Options
	symbols map[*term.Atom]*Symbol
	primary map[uint64]*Constraint
	secondary map[string]map[uint64]*Constraint
	seedCounter uint64

	// bySymbol is a flat per-symbol index used by package chr's LOOKUP
	// opcode, which needs to enumerate every constraint matching a
	// partially-bound argument subset rather than probe one exact key
	// (spec.md §4.3's declared Lookups chains are an exact-subset hash,
	// one chain per declared subset; this index is the linear-scan
	// fallback for subsets the symbol never declared).
	bySymbol map[*term.Atom][]*Constraint
}

// SymbolCount returns the number of distinct symbols the store has
// seen (via Declare or an implicit first Insert), for
// solver.Context.Dump.
func (st *Store) SymbolCount() int { return len(st.symbols) }

func New(opts core.Options) *Store {
	return &Store{
		opts:      opts,
		symbols:   make(map[*term.Atom]*Symbol),
		primary:   make(map[uint64]*Constraint),
		secondary: make(map[string]map[uint64]*Constraint),
		bySymbol:  make(map[*term.Atom][]*Constraint),
	}
}

// Declare registers a symbol's store-relevant properties. Each lookup
// subset is bounded by core.Options.MaxLookupArity.
func (st *Store) Declare(sym *term.Atom, commutative bool, lookups [][]int) error {
	for _, l := range lookups {
		if len(l) > st.opts.MaxLookupArity {
			return core.Errorf(core.KindConfig, "store", "Declare",
				"lookup arity %d exceeds max %d for %s", len(l), st.opts.MaxLookupArity, sym.Name)
		}
	}
	st.seedCounter++
	st.symbols[sym] = &Symbol{Commutative: commutative, Lookups: lookups, seed: st.seedCounter * 0x9e3779b97f4a7c15}
	return nil
}

func (st *Store) symbolFor(sym *term.Atom) *Symbol {
	s, ok := st.symbols[sym]
	if !ok {
		s = &Symbol{}
		st.symbols[sym] = s
	}
	return s
}

// normalize reorders a commutative symbol's arguments so the
// lexicographically smaller term comes first (spec.md §4.3).
func normalize(sym *Symbol, args []term.Term) []term.Term {
	if !sym.Commutative || len(args) != 2 {
		return args
	}
	if args[0].String() > args[1].String() {
		return []term.Term{args[1], args[0]}
	}
	return args
}

func identityHash(t term.Term) uint64 {
	if t.Tag() == term.TagVar {
		return t.AsVar().ID() * 0x9e3779b97f4a7c15
	}
	return fnv1a(t.String())
}

func fnv1a(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// hashKey computes the primary 128-bit key for symbol+args: the
// symbol's seed folds into Hi, each argument's identity hash folds
// into Lo.
func hashKey(sym *Symbol, args []term.Term) Key128 {
	lo := uint64(0)
	for _, a := range args {
		lo ^= identityHash(a)
		lo *= 1099511628211
	}
	return Key128{Hi: sym.seed ^ uint64(len(args)), Lo: lo}
}

func (k Key128) bucket() uint64 { return k.Hi ^ k.Lo }

// Get probes the store for an existing constraint with this
// symbol+args, returning it (and true) on hit.
func (st *Store) Get(sym *term.Atom, args []term.Term) (*Constraint, bool) {
	s := st.symbolFor(sym)
	args = normalize(s, args)
	key := hashKey(s, args)
	for c := st.primary[key.bucket()]; c != nil; c = c.next {
		if c.key == key && sameArgs(c.Args, args) {
			return c, true
		}
	}
	return nil, false
}

// Insert installs a new constraint, also populating every secondary
// lookup the symbol declares (spec.md §4.3).
func (st *Store) Insert(sym *term.Atom, args []term.Term) *Constraint {
	s := st.symbolFor(sym)
	args = normalize(s, args)
	key := hashKey(s, args)
	c := &Constraint{Symbol: sym, Args: args, key: key}
	st.chainInsert(st.primary, key.bucket(), c)

	for i, subset := range s.Lookups {
		lk := lookupKey(sym, subset, args)
		m := st.secondary[lookupName(sym, i)]
		if m == nil {
			m = make(map[uint64]*Constraint)
			st.secondary[lookupName(sym, i)] = m
		}
		st.chainInsert(m, lk.bucket(), c)
	}
	st.bySymbol[sym] = append(st.bySymbol[sym], c)
	return c
}

func (st *Store) chainInsert(m map[uint64]*Constraint, bucket uint64, c *Constraint) {
	head := m[bucket]
	c.next = head
	m[bucket] = c
}

func lookupName(sym *term.Atom, i int) string {
	return sym.Name + "#" + string(rune('a'+i))
}

func lookupKey(sym *term.Atom, subset []int, args []term.Term) Key128 {
	lo := uint64(0)
	for _, pos := range subset {
		lo ^= identityHash(args[pos])
		lo *= 1099511628211
	}
	return Key128{Hi: fnv1a(sym.Name) ^ uint64(len(subset)), Lo: lo}
}

func sameArgs(a, b []term.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
