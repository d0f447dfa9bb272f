package flatten

import (
	"fmt"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/term"
)

// AtomKey identifies a CNF atom: either a Boolean term.Var or an
// arithmetic Primitive produced by the flatten pass. Both are pointer
// types, so AtomKey is directly usable as a map key.
type AtomKey interface{}

// Literal is a signed reference to a CNF atom, pre-allocation: the
// backend package is the one that walks the output of this pass and
// hands out sat.Lit numbers per spec.md §2.6 ("CNF+defs -> SAT
// literals + posted theory atoms").
type Literal struct {
	Atom    AtomKey
	Negated bool
}

func (l Literal) String() string {
	if l.Negated {
		return fmt.Sprintf("¬%v", l.Atom)
	}
	return fmt.Sprintf("%v", l.Atom)
}

// Clause is a disjunction of Literals.
type Clause []Literal

// CNF is the flattened, Tseitin-encoded output: the clause set plus
// the Primitives the arithmetic atoms reduce to, ready for the backend
// pass to allocate SAT literals over.
type CNF struct {
	Clauses    []Clause
	Primitives []Primitive
}

// Encoder runs NNF (De Morgan push-down, already performed by the expr
// package's Not/And/Or constructors on construction) followed by
// Tseitin CNF encoding with one auxiliary Boolean variable per
// non-atomic sub-formula, as spec.md §4.6 describes.
type Encoder struct {
	flat    *Flattener
	clauses []Clause
	defs    map[string]*term.Var // sub-formula key -> its aux boolean var
}

func NewEncoder() *Encoder {
	return &Encoder{flat: New(), defs: make(map[string]*term.Var)}
}

// Encode Tseitin-encodes a top-level Boolean expr.Expr into CNF. The
// top clause asserts the formula's defining auxiliary as true, the
// standard "unit clause on the root definitional variable" closing
// step.
func (enc *Encoder) Encode(e expr.Expr) (*CNF, error) {
	root, err := enc.define(e)
	if err != nil {
		return nil, err
	}
	enc.clauses = append(enc.clauses, Clause{{Atom: root}})
	return &CNF{Clauses: enc.clauses, Primitives: enc.flat.Primitives}, nil
}

// define returns the atom (boolean var, or an arithmetic Primitive's
// truth atom) standing for e, emitting whatever Tseitin clauses are
// needed to define it along the way. Memoised by e's canonical key so
// a shared sub-formula gets exactly one auxiliary variable.
func (enc *Encoder) define(e expr.Expr) (*term.Var, error) {
	key := e.String()
	if v, ok := enc.defs[key]; ok {
		return v, nil
	}

	var v *term.Var
	var err error
	switch e.Kind() {
	case expr.KindLeaf:
		v, err = enc.defineLeaf(e)
	case expr.KindConj:
		v, err = enc.defineJunction(e, true)
	case expr.KindDisj:
		v, err = enc.defineJunction(e, false)
	case expr.KindCompare:
		v, err = enc.defineCompare(e)
	default:
		return nil, core.Errorf(core.KindInternal, "flatten", "Encoder.define",
			"cannot CNF-encode expr kind %d at the Boolean level", e.Kind())
	}
	if err != nil {
		return nil, err
	}
	enc.defs[key] = v
	return v, nil
}

func (enc *Encoder) defineLeaf(e expr.Expr) (*term.Var, error) {
	leaf := e.Leaf()
	if leaf.Tag() == term.TagVar {
		return leaf.AsVar(), nil
	}
	if b, ok := tryBool(leaf); ok {
		v := term.NewVar("")
		if b {
			enc.clauses = append(enc.clauses, Clause{{Atom: v}})
		} else {
			enc.clauses = append(enc.clauses, Clause{{Atom: v, Negated: true}})
		}
		return v, nil
	}
	return nil, core.Errorf(core.KindInternal, "flatten", "Encoder.defineLeaf",
		"non-boolean, non-variable leaf %s at the Boolean level", leaf)
}

func tryBool(t term.Term) (bool, bool) {
	if t.Tag() != term.TagBool {
		return false, false
	}
	return t.AsBool(), true
}

// defineJunction Tseitin-encodes an n-ary AND (isConj=true) or OR.
//
// AND: aux <-> (l1 ∧ ... ∧ ln)
//
//	(¬aux ∨ li)   for each i
//	(aux ∨ ¬l1 ∨ ... ∨ ¬ln)
//
// OR: aux <-> (l1 ∨ ... ∨ ln)
//
//	(aux ∨ ¬li)   for each i
//	(¬aux ∨ l1 ∨ ... ∨ ln)
func (enc *Encoder) defineJunction(e expr.Expr, isConj bool) (*term.Var, error) {
	operands := e.Operands()
	lits := make([]Literal, len(operands))
	for i, operand := range operands {
		sign := e.Sign(i)
		sub, err := enc.operandAtom(operand)
		if err != nil {
			return nil, err
		}
		lits[i] = Literal{Atom: sub, Negated: !sign}
	}

	aux := term.NewVar("")
	if isConj {
		for _, l := range lits {
			enc.clauses = append(enc.clauses, Clause{{Atom: aux, Negated: true}, l})
		}
		wide := make(Clause, 0, len(lits)+1)
		wide = append(wide, Literal{Atom: aux})
		for _, l := range lits {
			wide = append(wide, negate(l))
		}
		enc.clauses = append(enc.clauses, wide)
	} else {
		for _, l := range lits {
			enc.clauses = append(enc.clauses, Clause{{Atom: aux}, negate(l)})
		}
		wide := make(Clause, 0, len(lits)+1)
		wide = append(wide, Literal{Atom: aux, Negated: true})
		wide = append(wide, lits...)
		enc.clauses = append(enc.clauses, wide)
	}
	return aux, nil
}

// operandAtom resolves one AC-junction operand (itself possibly a
// nested Conj/Disj/Compare/Leaf) to its defining atom.
func (enc *Encoder) operandAtom(e expr.Expr) (*term.Var, error) {
	return enc.define(e)
}

func negate(l Literal) Literal { return Literal{Atom: l.Atom, Negated: !l.Negated} }

// defineCompare flattens the comparison's arithmetic difference to a
// reified Primitive and returns its reification atom. The theory
// solvers that actually decide whether the primitive holds, and feed
// that decision back to the reification atom, live in backend and
// theory/*, per spec.md §2.6.
func (enc *Encoder) defineCompare(e expr.Expr) (*term.Var, error) {
	atomVar := term.NewVar("")
	if _, err := enc.flat.Compare(e, atomVar); err != nil {
		return nil, err
	}
	return atomVar, nil
}
