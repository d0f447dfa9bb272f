package term

import (
	"fmt"

	"github.com/xDarkicex/smchr/core"
)

// TypeInst is one of the type-insts from spec.md §6: nil, bool, num,
// atom, str, any, or a user type name, optionally modified by "var of".
type TypeInst struct {
	Name  string // "nil" | "bool" | "num" | "atom" | "str" | "any" | user-type
	VarOf bool   // true if declared as "var of T"
}

func (ti TypeInst) String() string {
	if ti.VarOf {
		return "var of " + ti.Name
	}
	return ti.Name
}

// Builtin type-inst names.
const (
	TypeNil    = "nil"
	TypeBool   = "bool"
	TypeNum    = "num"
	TypeAtom   = "atom"
	TypeString = "str"
	TypeAny    = "any"
)

// TypeSig is a constraint symbol's signature: spec.md glossary
// "Typesig: a constraint symbol's signature — return type-inst and
// argument type-insts."
type TypeSig struct {
	Head    *Atom
	Args    []TypeInst
	Return  TypeInst
	Priority Priority
}

// Priority is the CHR scheduling priority declared by `type priority`.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// Registry maps an atom to its declared typesig, built by the CHR
// compiler's `type` declarations and consulted by the typecheck pass
// below.
type Registry struct {
	sigs map[*Atom]*TypeSig
}

func NewRegistry() *Registry { return &Registry{sigs: make(map[*Atom]*TypeSig)} }

// Declare registers a typesig, rejecting a conflicting re-declaration
// (spec.md §7 ConfigError: "conflicting priorities").
func (r *Registry) Declare(sig *TypeSig) error {
	if existing, ok := r.sigs[sig.Head]; ok {
		if len(existing.Args) != len(sig.Args) {
			return core.Errorf(core.KindType, "term", "Registry.Declare",
				"arity mismatch for %s: %d vs %d", sig.Head, len(existing.Args), len(sig.Args))
		}
		if existing.Priority != sig.Priority && sig.Priority != PriorityMedium {
			return core.Errorf(core.KindConfig, "term", "Registry.Declare",
				"conflicting priority declarations for %s", sig.Head)
		}
		return nil
	}
	r.sigs[sig.Head] = sig
	return nil
}

// Lookup returns the typesig for an atom, if declared.
func (r *Registry) Lookup(a *Atom) (*TypeSig, bool) {
	sig, ok := r.sigs[a]
	return sig, ok
}

// Typecheck walks a term against a typesig, producing a TypeError (per
// spec.md §7) on mismatch. An unbound Var is accepted for both `var of T`
// and a plain type-inst; any other term must have the shape of T
// (dereferencing is the caller's job —
// this pass runs pre-search, before union-find has any bindings, which
// matches original_source/typecheck.c running before solver_reset).
func (r *Registry) Typecheck(t Term, want TypeInst) error {
	if want.Name == TypeAny {
		return nil
	}
	if t.Tag() == TagVar {
		if want.VarOf {
			return nil
		}
		// An unbound variable satisfies any non-var-of type-inst too:
		// its type will be checked again once the solver binds it.
		return nil
	}
	switch want.Name {
	case TypeNil:
		if t.Tag() != TagNil {
			return typeErr(t, want)
		}
	case TypeBool:
		if t.Tag() != TagBool {
			return typeErr(t, want)
		}
	case TypeNum:
		if t.Tag() != TagNum {
			return typeErr(t, want)
		}
	case TypeAtom:
		if t.Tag() != TagAtom {
			return typeErr(t, want)
		}
	case TypeString:
		if t.Tag() != TagString {
			return typeErr(t, want)
		}
	default:
		// User type: checked structurally by head atom name matching
		// the declared type name for Func terms (a lightweight nominal
		// check; full algebraic-data-type checking is out of scope).
		if t.Tag() == TagFunc && t.Head().Name == want.Name {
			return nil
		}
		return typeErr(t, want)
	}
	return nil
}

// TypecheckArgs checks every argument of a function application
// against a declared signature, returning on the first mismatch.
func (r *Registry) TypecheckArgs(sig *TypeSig, args []Term) error {
	if len(args) != len(sig.Args) {
		return core.Errorf(core.KindType, "term", "TypecheckArgs",
			"%s/%d applied to %d arguments", sig.Head.Name, sig.Head.Arity, len(args))
	}
	for i, a := range args {
		if err := r.Typecheck(a, sig.Args[i]); err != nil {
			return err
		}
	}
	return nil
}

func typeErr(t Term, want TypeInst) *core.SolverError {
	return core.Errorf(core.KindType, "term", "Typecheck",
		"expected %s, got %s (%s)", want, t.Tag(), fmt.Sprintf("%v", t))
}
