package expr

import "math/big"

// True and False are the canonical Boolean constant expressions that
// AC-merge collapses onto (spec.md §4.5 "x ∧ ¬x collapses the whole
// expression to ⊤/⊥").
func True() Expr  { return Leaf(trueTerm) }
func False() Expr { return Leaf(falseTerm) }

func (e Expr) IsTrue() bool  { return e.kind == KindLeaf && e.leaf.Equal(trueTerm) }
func (e Expr) IsFalse() bool { return e.kind == KindLeaf && e.leaf.Equal(falseTerm) }

// Number builds a leaf numeric constant, used as the neutral/absorbing
// element during sum and product folding.
func Number(n float64) Expr { return Leaf(numTerm(n)) }

func (e Expr) AsNumber() (float64, bool) {
	if e.kind == KindLeaf && e.leaf.Tag().String() == "Num" {
		return e.leaf.AsNum(), true
	}
	return 0, false
}

// newOrdered builds the scaffolding shared by Add/Mul/And/Or.
func newOrdered(kind Kind) Expr {
	return Expr{
		kind:     kind,
		coeffs:   map[string]*big.Rat{},
		exps:     map[string]int{},
		signs:    map[string]bool{},
		operands: map[string]Expr{},
	}
}

func (e *Expr) resort() {
	e.order = e.order[:0]
	seen := map[string]struct{}{}
	for k := range e.operands {
		seen[k] = struct{}{}
	}
	e.order = sortedKeys(seen)
}

// Add builds the canonical sum of operands, merging coefficients of
// structurally-identical operands and dropping zero-coefficient terms
// (spec.md §3, §4.5). Numeric constants fold into a single accumulated
// constant term (keyed key(Number(0))+"#const", operand 1, the constant
// as its coefficient) so "2 + 3" collapses to the leaf 5, not a
// two-operand sum. A product's "#const*" factor becomes its term's
// coefficient, so 3*x + 1 holds x with coefficient 3.
func Add(operands ...Expr) Expr {
	out := newOrdered(KindSum)
	var constant big.Rat
	for _, operand := range operands {
		addInto(&out, &constant, operand, big.NewRat(1, 1))
	}
	return finishSum(out, constant)
}

func addInto(out *Expr, constant *big.Rat, operand Expr, scale *big.Rat) {
	if n, ok := operand.AsNumber(); ok {
		var r big.Rat
		r.SetFloat64(n)
		r.Mul(&r, scale)
		constant.Add(constant, &r)
		return
	}
	if operand.kind == KindSum {
		for _, k := range operand.order {
			c := new(big.Rat).Mul(operand.coeffs[k], scale)
			mergeSumTerm(out, k, operand.operands[k], c)
		}
		return
	}
	if operand.kind == KindProduct && len(operand.order) > 1 {
		if k := operand.order[0]; operand.exps[k] == 1 && len(k) > 7 && k[:7] == "#const*" {
			c, _ := new(big.Rat).SetString(k[7:])
			rest := newOrdered(KindProduct)
			for _, k2 := range operand.order[1:] {
				mergeProductTerm(&rest, k2, operand.operands[k2], operand.exps[k2])
			}
			addInto(out, constant, finishProduct(rest, big.NewRat(1, 1)), c.Mul(c, scale))
			return
		}
	}
	mergeSumTerm(out, key(operand), operand, scale)
}

func mergeSumTerm(out *Expr, k string, operand Expr, coeff *big.Rat) {
	if existing, ok := out.coeffs[k]; ok {
		existing.Add(existing, coeff)
		if existing.Sign() == 0 {
			delete(out.coeffs, k)
			delete(out.operands, k)
		}
		return
	}
	if coeff.Sign() == 0 {
		return
	}
	out.coeffs[k] = new(big.Rat).Set(coeff)
	out.operands[k] = operand
}

func finishSum(out Expr, constant big.Rat) Expr {
	out.resort()
	if len(out.order) == 0 {
		f, _ := constant.Float64()
		return Number(f)
	}
	if len(out.order) == 1 && constant.Sign() == 0 {
		k := out.order[0]
		if out.coeffs[k].Cmp(big.NewRat(1, 1)) == 0 {
			return out.operands[k]
		}
	}
	if constant.Sign() != 0 {
		mergeSumTerm(&out, key(Number(0))+"#const", Number(1), &constant)
		out.resort()
	}
	return out
}

func mustFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// Mul builds the canonical product, adding the integer exponents of
// structurally-identical operands. Numeric operands multiply into one
// rational constant, kept as a single "#const*<value>" factor with
// exponent 1 (Add turns it into the term's coefficient); constants are
// not split into prime factors, so 4 * x^2 holds {#const*4: 1, x: 2}.
func Mul(operands ...Expr) Expr {
	out := newOrdered(KindProduct)
	constant := big.NewRat(1, 1)
	for _, operand := range operands {
		mulInto(&out, constant, operand)
	}
	return finishProduct(out, constant)
}

func mulInto(out *Expr, constant *big.Rat, operand Expr) {
	if n, ok := operand.AsNumber(); ok {
		var r big.Rat
		r.SetFloat64(n)
		constant.Mul(constant, &r)
		return
	}
	if operand.kind == KindProduct {
		for _, k := range operand.order {
			mergeProductTerm(out, k, operand.operands[k], operand.exps[k])
		}
		return
	}
	mergeProductTerm(out, key(operand), operand, 1)
}

func mergeProductTerm(out *Expr, k string, operand Expr, exp int) {
	if existing, ok := out.exps[k]; ok {
		sum := existing + exp
		if sum == 0 {
			delete(out.exps, k)
			delete(out.operands, k)
			return
		}
		out.exps[k] = sum
		return
	}
	if exp == 0 {
		return
	}
	out.exps[k] = exp
	out.operands[k] = operand
}

func finishProduct(out Expr, constant *big.Rat) Expr {
	out.resort()
	if constant.Sign() == 0 {
		return Number(0)
	}
	if len(out.order) == 0 {
		return Number(mustFloat(constant))
	}
	if constant.Cmp(big.NewRat(1, 1)) != 0 {
		k := "#const*" + constant.RatString()
		out.exps[k] = 1
		out.operands[k] = Number(mustFloat(constant))
		out.resort()
	}
	if len(out.order) == 1 && out.exps[out.order[0]] == 1 {
		return out.operands[out.order[0]]
	}
	return out
}

// Pow raises e to an integer power, multiplying every exponent of a
// product by n (spec.md §4.5).
func Pow(e Expr, n int) Expr {
	if n == 1 {
		return e
	}
	if e.kind != KindProduct {
		base := newOrdered(KindProduct)
		base.exps[key(e)] = n
		base.operands[key(e)] = e
		base.resort()
		return base
	}
	out := newOrdered(KindProduct)
	for _, k := range e.order {
		out.exps[k] = e.exps[k] * n
		out.operands[k] = e.operands[k]
	}
	out.resort()
	return out
}

// And builds the canonical conjunction, driving negation below the
// node via De Morgan at the caller (Not below), collapsing x ∧ ¬x to
// False and deduplicating repeated operands (spec.md §4.5).
func And(operands ...Expr) Expr { return boolMerge(KindConj, operands) }

// Or builds the canonical disjunction.
func Or(operands ...Expr) Expr { return boolMerge(KindDisj, operands) }

func boolMerge(kind Kind, operands []Expr) Expr {
	absorbing := KindDisj // the value that short-circuits: Or short-circuits on True
	_ = absorbing
	out := newOrdered(kind)
	collapsed := false
	for _, operand := range operands {
		if collapseInto(&out, kind, operand, true) {
			collapsed = true
		}
	}
	if collapsed {
		if kind == KindConj {
			return False()
		}
		return True()
	}
	out.resort()
	if len(out.order) == 0 {
		if kind == KindConj {
			return True()
		}
		return False()
	}
	if len(out.order) == 1 && out.signs[out.order[0]] {
		return out.operands[out.order[0]]
	}
	return out
}

// Not negates an expression, pushing the negation through AC Boolean
// nodes (De Morgan) so a negation never appears above ∧/∨, as spec.md
// §4.5 requires.
func Not(e Expr) Expr {
	switch {
	case e.IsTrue():
		return False()
	case e.IsFalse():
		return True()
	case e.kind == KindConj:
		flipped := make([]Expr, 0, len(e.order))
		for _, k := range e.order {
			flipped = append(flipped, negateOperand(e.operands[k], e.signs[k]))
		}
		return Or(flipped...)
	case e.kind == KindDisj:
		flipped := make([]Expr, 0, len(e.order))
		for _, k := range e.order {
			flipped = append(flipped, negateOperand(e.operands[k], e.signs[k]))
		}
		return And(flipped...)
	default:
		return negatedLeafWrap(e)
	}
}

func negateOperand(operand Expr, sign bool) Expr {
	if sign {
		return Not(operand)
	}
	return operand
}

// collapseInto merges one operand of a Boolean AC node, returning true
// if the whole node collapses (x ∧ ¬x / x ∨ ¬x encountered).
func collapseInto(out *Expr, kind Kind, operand Expr, sign bool) bool {
	if kind == KindConj && operand.IsFalse() {
		return true
	}
	if kind == KindDisj && operand.IsTrue() {
		return true
	}
	if operand.IsTrue() || operand.IsFalse() {
		return false // absorbed as identity, contributes nothing
	}
	if operand.kind == kind {
		for _, k := range operand.order {
			if collapseSignedTerm(out, k, operand.operands[k], operand.signs[k] == sign) {
				return true
			}
		}
		return false
	}
	if (operand.kind == KindConj || operand.kind == KindDisj) && len(operand.order) == 1 {
		// A one-operand junction (how Not(x) is held) is its signed operand.
		k := operand.order[0]
		return collapseSignedTerm(out, k, operand.operands[k], operand.signs[k] == sign)
	}
	k := key(operand)
	return collapseSignedTerm(out, k, operand, sign)
}

func collapseSignedTerm(out *Expr, k string, operand Expr, sign bool) bool {
	if existing, ok := out.signs[k]; ok {
		if existing != sign {
			return true // x and ¬x both present: collapse
		}
		return false // duplicate, already recorded
	}
	out.signs[k] = sign
	out.operands[k] = operand
	return false
}

// negatedLeafWrap wraps a single non-AC operand as a one-element
// disjunction carrying the negative sign, the AC representation of "¬x"
// for a bare leaf/compare node.
func negatedLeafWrap(e Expr) Expr {
	out := newOrdered(KindDisj)
	out.signs[key(e)] = false
	out.operands[key(e)] = e
	out.resort()
	return out
}
