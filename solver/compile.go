package solver

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/term"
)

// lowerers maps a function-head name to the expr constructor Compile
// lowers it with; arithmetic and Boolean connectives are n-ary per
// spec.md §3's expr layer, and the lookup is by name only, so a goal
// built with (+)/2 and one built with (+)/3 are lowered the same way.
var lowerers = map[string]func([]expr.Expr) (expr.Expr, error){
	"+":   func(ops []expr.Expr) (expr.Expr, error) { return expr.Add(ops...), nil },
	"*":   func(ops []expr.Expr) (expr.Expr, error) { return expr.Mul(ops...), nil },
	"and": func(ops []expr.Expr) (expr.Expr, error) { return expr.And(ops...), nil },
	"or":  func(ops []expr.Expr) (expr.Expr, error) { return expr.Or(ops...), nil },
}

// Compile lowers a goal term.Term into the canonical expr.Expr layer
// (spec.md §2.1/§2.2's Term -> Expression step), dispatching on the
// function-head name for arithmetic and Boolean connectives and
// falling back to a plain Leaf for anything else (variables, atoms,
// numbers, and uninterpreted function applications the rewrite pass
// has not turned into one of the recognised connectives).
func Compile(t term.Term) (expr.Expr, error) {
	switch t.Tag() {
	case term.TagNum:
		return expr.Number(t.AsNum()), nil
	case term.TagVar:
		return expr.Var(t.AsVar()), nil
	case term.TagBool:
		if t.AsBool() {
			return expr.True(), nil
		}
		return expr.False(), nil
	case term.TagFunc:
		return compileFunc(t)
	default:
		return expr.Leaf(t), nil
	}
}

func compileFunc(t term.Term) (expr.Expr, error) {
	head := t.Head()
	args := t.AsArgs()

	switch head.Name {
	case "not":
		if len(args) != 1 {
			return expr.Expr{}, core.Errorf(core.KindType, "solver", "Compile",
				"not/%d: expected arity 1", len(args))
		}
		inner, err := Compile(args[0])
		if err != nil {
			return expr.Expr{}, err
		}
		return expr.Not(inner), nil

	case "=", "<", "<=", ">=", ">":
		if len(args) != 2 {
			return expr.Expr{}, core.Errorf(core.KindType, "solver", "Compile",
				"%s/%d: expected arity 2", head.Name, len(args))
		}
		lhs, err := Compile(args[0])
		if err != nil {
			return expr.Expr{}, err
		}
		rhs, err := Compile(args[1])
		if err != nil {
			return expr.Expr{}, err
		}
		switch head.Name {
		case "=":
			return expr.Eq(lhs, rhs), nil
		case "<":
			return expr.Lt(lhs, rhs), nil
		case "<=":
			return expr.Le(lhs, rhs), nil
		case ">=":
			return expr.Ge(lhs, rhs), nil
		case ">":
			return expr.Lt(rhs, lhs), nil
		}
	}

	lower, ok := lowerers[head.Name]
	if !ok {
		return expr.Leaf(t), nil
	}
	operands := make([]expr.Expr, len(args))
	for i, a := range args {
		op, err := Compile(a)
		if err != nil {
			return expr.Expr{}, err
		}
		operands[i] = op
	}
	return lower(operands)
}
