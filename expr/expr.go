// Package expr implements the canonical expression layer from spec.md
// §2.2 and §4.5: a variant of term.Term that shares multiset structure
// for associative-commutative operators (+, *, ∧, ∨) via ordered-map
// operand tables, simplifying on construction rather than after the
// fact.
package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/xDarkicex/smchr/term"
)

// Kind discriminates the additional internal tags spec.md §3 layers on
// top of term.Term for canonical AC nodes and comparisons.
type Kind int

const (
	KindLeaf Kind = iota
	KindSum
	KindProduct
	KindConj
	KindDisj
	KindCompare
)

// CompareOp is the canonical comparison operator after rewriting: every
// comparison reduces to "0 = d(e)" or "0 < d(e)" (spec.md §4.5).
type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareLt
)

// Expr is an immutable canonical expression node.
type Expr struct {
	kind Kind

	// KindLeaf
	leaf term.Term

	// KindSum: operand key -> coefficient, implicit coefficient 1 when
	// absent from sum but present in order; KindProduct: operand key ->
	// integer exponent. KindConj/KindDisj: operand key -> sign (true =
	// positive literal).
	coeffs map[string]*big.Rat
	exps   map[string]int
	signs  map[string]bool
	// operands maps the same key space to the actual sub-Expr, and
	// order holds keys in the deterministic sort order used for both
	// iteration and the "equal as multisets" testable property.
	operands map[string]Expr
	order    []string

	// KindCompare
	cmpOp   CompareOp
	cmpDiff *Expr
}

// Leaf wraps a term.Term leaf (variable, constant, or a non-AC
// function application) as an Expr.
func Leaf(t term.Term) Expr { return Expr{kind: KindLeaf, leaf: t} }

func (e Expr) Kind() Kind        { return e.kind }
func (e Expr) Leaf() term.Term   { return e.leaf }
func (e Expr) CompareOp() CompareOp { return e.cmpOp }
func (e Expr) Diff() *Expr       { return e.cmpDiff }

// Operands returns the operands in canonical sorted order.
func (e Expr) Operands() []Expr {
	out := make([]Expr, len(e.order))
	for i, k := range e.order {
		out[i] = e.operands[k]
	}
	return out
}

// Coefficient returns the AC-sum coefficient of operand index i.
func (e Expr) Coefficient(i int) *big.Rat { return e.coeffs[e.order[i]] }

// Exponent returns the AC-product exponent of operand index i.
func (e Expr) Exponent(i int) int { return e.exps[e.order[i]] }

// Sign returns the AC-conj/disj sign of operand index i (true=positive).
func (e Expr) Sign(i int) bool { return e.signs[e.order[i]] }

// key returns a canonical string for an Expr, used both as the map key
// inside an AC node (so structurally-equal sub-expressions collapse)
// and to keep iteration order deterministic regardless of construction
// order — the basis for the "AC maps must iterate deterministically"
// design note (spec.md §9) and the "reverse-order construction is
// equal as a multiset" testable property (spec.md §8).
func key(e Expr) string {
	switch e.kind {
	case KindLeaf:
		return "L:" + e.leaf.String()
	case KindSum, KindProduct, KindConj, KindDisj:
		parts := make([]string, len(e.order))
		for i, k := range e.order {
			switch e.kind {
			case KindSum:
				parts[i] = fmt.Sprintf("%s*%s", e.coeffs[k].RatString(), k)
			case KindProduct:
				parts[i] = fmt.Sprintf("%s^%d", k, e.exps[k])
			default:
				sign := "+"
				if !e.signs[k] {
					sign = "-"
				}
				parts[i] = sign + k
			}
		}
		tagLetter := map[Kind]string{KindSum: "S", KindProduct: "P", KindConj: "A", KindDisj: "O"}[e.kind]
		return tagLetter + "(" + strings.Join(parts, ",") + ")"
	case KindCompare:
		op := "="
		if e.cmpOp == CompareLt {
			op = "<"
		}
		return "C" + op + key(*e.cmpDiff)
	}
	return "?"
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e Expr) String() string {
	switch e.kind {
	case KindLeaf:
		return e.leaf.String()
	case KindSum:
		parts := make([]string, len(e.order))
		for i, k := range e.order {
			c := e.coeffs[k]
			if c.Cmp(big.NewRat(1, 1)) == 0 {
				parts[i] = k
			} else {
				parts[i] = c.RatString() + "*" + k
			}
		}
		return "(" + strings.Join(parts, " + ") + ")"
	case KindProduct:
		parts := make([]string, len(e.order))
		for i, k := range e.order {
			if e.exps[k] == 1 {
				parts[i] = k
			} else {
				parts[i] = fmt.Sprintf("%s^%d", k, e.exps[k])
			}
		}
		return "(" + strings.Join(parts, " * ") + ")"
	case KindConj, KindDisj:
		sep := " ∧ "
		if e.kind == KindDisj {
			sep = " ∨ "
		}
		parts := make([]string, len(e.order))
		for i, k := range e.order {
			if e.signs[k] {
				parts[i] = k
			} else {
				parts[i] = "¬" + k
			}
		}
		return "(" + strings.Join(parts, sep) + ")"
	case KindCompare:
		op := "="
		if e.cmpOp == CompareLt {
			op = "<"
		}
		return fmt.Sprintf("0 %s %s", op, e.cmpDiff.String())
	}
	return "<invalid expr>"
}
