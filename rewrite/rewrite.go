// Package rewrite implements the user rewrite-rule pass from spec.md
// §2.3 and §4.6: `pattern --> replacement` rules (spec.md §6) applied
// bottom-up with memoisation and a recursion-depth bound, ahead of the
// flatten pass.
package rewrite

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/term"
)

// Rule is one `head --> body` declaration. Every term.Var appearing in
// Pattern is a pattern variable that Body may reference; spec.md §6
// requires propagation rules to be range-restricted, but rewrite rules
// (unlike CHR rules) are not, since Body is a plain substitution target
// rather than a posted constraint.
type Rule struct {
	Pattern term.Term
	Body    term.Term
}

// Table indexes rules by the head atom of their pattern, the
// "symbol-indexed table maps head atom to the rule list" of spec.md
// §4.6.
type Table struct {
	rules map[*term.Atom][]*Rule
}

func NewTable() *Table { return &Table{rules: make(map[*term.Atom][]*Rule)} }

// Add registers a rule, keyed by its pattern's head atom. A bare
// variable or constant pattern (no head atom) is rejected: it would
// match everything and rewrite rules are meant to target a constructor.
func (t *Table) Add(r *Rule) error {
	if r.Pattern.Tag() != term.TagFunc && r.Pattern.Tag() != term.TagAtom {
		return core.Errorf(core.KindConfig, "rewrite", "Table.Add",
			"rewrite pattern must have a head atom, got %s", r.Pattern.Tag())
	}
	head := r.Pattern.Head()
	t.rules[head] = append(t.rules[head], r)
	return nil
}

// Pass applies the rewrite table bottom-up to a term, with the
// MAX_DEPTH=64 recursion bound and per-pass memoisation spec.md §4.6
// specifies ("the same sub-expression is rewritten once per pass").
type Pass struct {
	table    *Table
	maxDepth int
	memo     map[string]term.Term
}

// NewPass builds a rewrite pass over the given table. maxDepth <= 0
// defaults to 64 (spec.md §4.6's MAX_DEPTH).
func NewPass(table *Table, maxDepth int) *Pass {
	if maxDepth <= 0 {
		maxDepth = 64
	}
	return &Pass{table: table, maxDepth: maxDepth, memo: make(map[string]term.Term)}
}

// Apply rewrites t bottom-up to a fixed point (bounded by maxDepth),
// returning an error if depth is exhausted without stabilising.
func (p *Pass) Apply(t term.Term) (term.Term, error) {
	return p.apply(t, 0)
}

func (p *Pass) apply(t term.Term, depth int) (term.Term, error) {
	if depth > p.maxDepth {
		return term.Term{}, core.Errorf(core.KindRange, "rewrite", "Pass.Apply",
			"rewrite recursion exceeded max depth %d", p.maxDepth)
	}

	key := t.String()
	if cached, ok := p.memo[key]; ok {
		return cached, nil
	}

	// Bottom-up: rewrite children first.
	rewritten := t
	if t.Tag() == term.TagFunc {
		args := t.AsArgs()
		newArgs := make([]term.Term, len(args))
		changed := false
		for i, a := range args {
			na, err := p.apply(a, depth+1)
			if err != nil {
				return term.Term{}, err
			}
			newArgs[i] = na
			if !na.Equal(a) {
				changed = true
			}
		}
		if changed {
			rewritten = term.Func(t.Head(), newArgs...)
		}
	}

	// Try rules at this node, applied repeatedly to a fixed point.
	for {
		applied := false
		head := headOf(rewritten)
		for _, rule := range p.table.rules[head] {
			bindings := map[*term.Var]term.Term{}
			if match(rule.Pattern, rewritten, bindings) {
				substituted := substitute(rule.Body, bindings)
				next, err := p.apply(substituted, depth+1)
				if err != nil {
					return term.Term{}, err
				}
				rewritten = next
				applied = true
				break
			}
		}
		if !applied {
			break
		}
	}

	p.memo[key] = rewritten
	return rewritten, nil
}

func headOf(t term.Term) *term.Atom {
	if t.Tag() == term.TagFunc || t.Tag() == term.TagAtom {
		return t.Head()
	}
	return nil
}

// match attempts to match pattern against input, recording pattern
// variable bindings. It is a one-directional structural match (pattern
// vars bind to arbitrary sub-terms; non-variable structure must agree
// exactly), not a full unification.
func match(pattern, input term.Term, bindings map[*term.Var]term.Term) bool {
	if pattern.Tag() == term.TagVar {
		v := pattern.AsVar()
		if existing, ok := bindings[v]; ok {
			return existing.Equal(input)
		}
		bindings[v] = input
		return true
	}
	if pattern.Tag() != input.Tag() {
		return false
	}
	switch pattern.Tag() {
	case term.TagFunc:
		if pattern.Head() != input.Head() {
			return false
		}
		pa, ia := pattern.AsArgs(), input.AsArgs()
		if len(pa) != len(ia) {
			return false
		}
		for i := range pa {
			if !match(pa[i], ia[i], bindings) {
				return false
			}
		}
		return true
	default:
		return pattern.Equal(input)
	}
}

// substitute replaces every pattern variable in t with its binding.
func substitute(t term.Term, bindings map[*term.Var]term.Term) term.Term {
	if t.Tag() == term.TagVar {
		if bound, ok := bindings[t.AsVar()]; ok {
			return bound
		}
		return t
	}
	if t.Tag() == term.TagFunc {
		args := t.AsArgs()
		newArgs := make([]term.Term, len(args))
		for i, a := range args {
			newArgs[i] = substitute(a, bindings)
		}
		return term.Func(t.Head(), newArgs...)
	}
	return t
}
