package expr

import "math/big"

// Eq and Lt build the two canonical comparison shapes spec.md §4.5
// reduces every comparison to: "0 = d(e)" or "0 < d(e)", where d(e) is
// the canonical difference rhs - lhs. Eq's difference is flipped to a
// positive leading coefficient; Lt's keeps its sign, since flipping it
// would reverse the inequality.
func Eq(lhs, rhs Expr) Expr { return compare(CompareEq, lhs, rhs) }
func Lt(lhs, rhs Expr) Expr { return compare(CompareLt, lhs, rhs) }

// Le folds x <= y into ¬(y < x); Ge folds x >= y into ¬(x < y)
// (spec.md §4.5).
func Le(lhs, rhs Expr) Expr { return Not(Lt(rhs, lhs)) }
func Ge(lhs, rhs Expr) Expr { return Not(Lt(lhs, rhs)) }

func compare(op CompareOp, lhs, rhs Expr) Expr {
	diff := Add(rhs, Mul(Number(-1), lhs))
	if op == CompareEq {
		diff = normalizeLeadingSign(diff)
	}
	if n, ok := diff.AsNumber(); ok {
		switch op {
		case CompareEq:
			if n == 0 {
				return True()
			}
			return False()
		case CompareLt:
			if 0 < n {
				return True()
			}
			return False()
		}
	}
	out := Expr{kind: KindCompare, cmpOp: op, cmpDiff: &diff}
	return out
}

// normalizeLeadingSign flips a sum so its first (sorted-key) operand
// has a positive coefficient, the "sign of the leading coefficient is
// normalised" rule from spec.md §4.5.
func normalizeLeadingSign(e Expr) Expr {
	if e.kind != KindSum || len(e.order) == 0 {
		return e
	}
	lead := e.coeffs[e.order[0]]
	if lead.Sign() >= 0 {
		return e
	}
	flipped := newOrdered(KindSum)
	for _, k := range e.order {
		c := new(big.Rat).Neg(e.coeffs[k])
		flipped.coeffs[k] = c
		flipped.operands[k] = e.operands[k]
	}
	flipped.resort()
	return flipped
}
