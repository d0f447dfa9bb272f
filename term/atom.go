package term

import (
	"fmt"
	"sync"
)

// Atom is a globally interned (name, arity) pair. Atoms are compared by
// identity per spec.md §3 and §9 ("hash-consing of atoms"); the
// interning table below is the "central" place that must happen, guarded
// by a mutex since a plugin loader or a concurrent front end might
// intern from outside the single-threaded search loop even though the
// search loop itself never runs two threads at once (spec.md §5).
type Atom struct {
	Name  string
	Arity int
	id    uint64 // insertion order
}

// ID returns the atom's stable interning number (its insertion order);
// package chr's GET_ID reads it.
func (a *Atom) ID() uint64 { return a.id }

func (a *Atom) String() string { return fmt.Sprintf("%s/%d", a.Name, a.Arity) }

type atomKey struct {
	name  string
	arity int
}

var (
	atomMu     sync.Mutex
	atomTable  = make(map[atomKey]*Atom)
	atomNextID uint64
)

// Intern returns the unique *Atom for (name, arity), creating it on
// first use. Two calls with the same (name, arity) always return the
// same pointer.
func Intern(name string, arity int) *Atom {
	key := atomKey{name, arity}

	atomMu.Lock()
	defer atomMu.Unlock()

	if a, ok := atomTable[key]; ok {
		return a
	}
	atomNextID++
	a := &Atom{Name: name, Arity: arity, id: atomNextID}
	atomTable[key] = a
	return a
}

// ResetInterning clears the global atom table, for a clean symbol space
// between unrelated uses; nothing in this module calls it, and atoms are
// cheap and harmless to keep alive.
func ResetInterning() {
	atomMu.Lock()
	defer atomMu.Unlock()
	atomTable = make(map[atomKey]*Atom)
	atomNextID = 0
}
