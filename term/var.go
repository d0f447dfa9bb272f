package term

import (
	"fmt"
	"sync/atomic"

	"github.com/xDarkicex/smchr/lit"
)

var varCounter uint64

// Var is a logical variable: spec.md §3 "Variable (term-level)". The
// union-find link/justification/constraint-list fields live here
// (rather than in package unionfind) because spec.md describes them as
// properties the variable itself carries; package unionfind is the
// *algorithm* (deref/bind/match) operating on these fields, the same
// split original_source/var.c (struct) and solver.c (algorithm) make.
type Var struct {
	Name string
	id   uint64

	// Next is the union-find successor; Next == self means this Var is
	// the representative of its class. Mutated only through package
	// unionfind so every mutation is trail-reversible.
	Next *Var
	// Link is the literal that justified attaching Next (spec.md §3,
	// §4.4 bind). Lit(0) for the self-link / level-0 facts.
	Link lit.Lit

	// Constraints attached to this variable when it is a representative;
	// unionfind.Bind transplants them onto the new representative.
	Constraints []uint64 // constraint store keys

	// Scratch is the fixed-size per-solver area theory solvers index by
	// variable identity (spec.md §4.8 "alloc_extra/extra"); keyed by a
	// small solver-assigned slot index rather than a name so no solver
	// needs to know about another solver's state.
	Scratch [8]interface{}
}

// NewVar allocates a fresh variable with a monotonically increasing
// name when name == "" (spec.md: "freshly generated with a monotonic
// counter"), self-linked as its own representative.
func NewVar(name string) *Var {
	id := atomic.AddUint64(&varCounter, 1)
	if name == "" {
		name = fmt.Sprintf("_G%d", id)
	}
	v := &Var{Name: name, id: id}
	v.Next = v
	return v
}

// ID returns a stable identity, used as the identity hash for
// store lookups over variable arguments (spec.md §4.3).
func (v *Var) ID() uint64 { return v.id }

// IsRepresentative reports whether v is self-linked.
func (v *Var) IsRepresentative() bool { return v.Next == v }
