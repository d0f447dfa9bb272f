// Package term implements the tagged, hash-consing-friendly algebraic
// terms from spec.md §3 ("Term"): the bottom layer of the expression
// pipeline, carrying variables, literals, atoms and function
// applications before any canonicalisation happens in package expr.
package term

import (
	"fmt"
	"math"
	"strings"
)

// Tag identifies which field of a Term is meaningful.
type Tag int

const (
	TagVar Tag = iota
	TagNil
	TagBool
	TagNum
	TagAtom
	TagString
	TagForeign
	TagFunc
)

func (t Tag) String() string {
	switch t {
	case TagVar:
		return "Var"
	case TagNil:
		return "Nil"
	case TagBool:
		return "Bool"
	case TagNum:
		return "Num"
	case TagAtom:
		return "Atom"
	case TagString:
		return "String"
	case TagForeign:
		return "Foreign"
	case TagFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// MaxSafeInteger is the largest float64 magnitude that round-trips
// exactly with the integer theory (2^53), per spec.md §3.
const MaxSafeInteger = float64(1 << 53)

// Term is an immutable tagged value. Zero value is not meaningful; use
// the constructors below.
type Term struct {
	tag     Tag
	v       *Var        // TagVar
	b       bool        // TagBool
	n       float64     // TagNum
	a       *Atom       // TagAtom, also head of TagFunc
	s       string      // TagString
	foreign interface{} // TagForeign
	args    []Term      // TagFunc
}

func (t Term) Tag() Tag { return t.tag }

// Var builds a variable term.
func Var(v *Var) Term { return Term{tag: TagVar, v: v} }

// NilTerm is the unique nil value.
var NilTerm = Term{tag: TagNil}

// Bool builds a boolean literal term.
func Bool(b bool) Term { return Term{tag: TagBool, b: b} }

// Num builds a numeric term. IsSafeInteger reports whether it can
// round-trip with the integer theory.
func Num(n float64) Term { return Term{tag: TagNum, n: n} }

// AtomTerm builds an atom term from an interned Atom.
func AtomTerm(a *Atom) Term { return Term{tag: TagAtom, a: a} }

// String builds a string term.
func String(s string) Term { return Term{tag: TagString, s: s} }

// Foreign wraps an opaque value the core does not interpret.
func Foreign(v interface{}) Term { return Term{tag: TagForeign, foreign: v} }

// Func builds a function application term headed by atom `head` (whose
// arity must equal len(args)).
func Func(head *Atom, args ...Term) Term {
	if head.Arity != len(args) {
		panic(fmt.Sprintf("term.Func: atom %s/%d applied to %d args", head.Name, head.Arity, len(args)))
	}
	return Term{tag: TagFunc, a: head, args: args}
}

func (t Term) AsVar() *Var        { return t.v }
func (t Term) AsBool() bool       { return t.b }
func (t Term) AsNum() float64     { return t.n }
func (t Term) AsAtom() *Atom      { return t.a }
func (t Term) AsString() string   { return t.s }
func (t Term) AsForeign() interface{} { return t.foreign }
func (t Term) AsArgs() []Term     { return t.args }

// Head returns the function-head atom for a TagFunc term, or the atom
// itself for a TagAtom term.
func (t Term) Head() *Atom { return t.a }

// IsSafeInteger reports whether a numeric term's value round-trips
// exactly with the integer theory (spec.md §3's 2^53 bound).
func (t Term) IsSafeInteger() bool {
	if t.tag != TagNum {
		return false
	}
	return t.n == math.Trunc(t.n) && math.Abs(t.n) <= MaxSafeInteger
}

// Equal compares two terms structurally. Atoms compare by identity
// (pointer equality, since they are globally interned); variables
// compare by identity too (not by deref — union-find equality is a
// separate, heavier-weight question answered by package unionfind).
func (t Term) Equal(o Term) bool {
	if t.tag != o.tag {
		return false
	}
	switch t.tag {
	case TagVar:
		return t.v == o.v
	case TagNil:
		return true
	case TagBool:
		return t.b == o.b
	case TagNum:
		return t.n == o.n
	case TagAtom:
		return t.a == o.a
	case TagString:
		return t.s == o.s
	case TagForeign:
		return t.foreign == o.foreign
	case TagFunc:
		if t.a != o.a || len(t.args) != len(o.args) {
			return false
		}
		for i := range t.args {
			if !t.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t Term) String() string {
	switch t.tag {
	case TagVar:
		return t.v.Name
	case TagNil:
		return "nil"
	case TagBool:
		if t.b {
			return "true"
		}
		return "false"
	case TagNum:
		return fmt.Sprintf("%g", t.n)
	case TagAtom:
		return t.a.Name
	case TagString:
		return fmt.Sprintf("%q", t.s)
	case TagForeign:
		return fmt.Sprintf("<foreign:%v>", t.foreign)
	case TagFunc:
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", t.a.Name, strings.Join(parts, ", "))
	}
	return "<invalid term>"
}
