// Package linear implements the rational simplex theory of spec.md
// §4.8: a tableau over math/big.Rat (the pack's one justified
// stdlib-only dependency, per SPEC_FULL.md §3 — no ecosystem exact-
// rational-arithmetic library exists in the retrieval pack), with
// Bland's rule driving pivot selection to guarantee termination.
package linear

import (
	"math/big"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
)

// Row is one tableau row: basic variable index, and its coefficients
// over the non-basic variables (dense for simplicity; spec.md doesn't
// mandate sparsity).
type Row struct {
	Basic  int
	Coeffs []*big.Rat // indexed by non-basic column
	Bound  *big.Rat
	Reason []lit.Lit // bound-justifications this row's infeasibility would union
}

// Tableau is the simplex state: m rows over n non-basic columns.
type Tableau struct {
	rows    []Row
	numVars int
	opts    core.Options
}

func NewTableau(opts core.Options, numVars int) *Tableau {
	return &Tableau{numVars: numVars, opts: opts}
}

func (t *Tableau) AddRow(basic int, coeffs []*big.Rat, bound *big.Rat, reason []lit.Lit) {
	t.rows = append(t.rows, Row{Basic: basic, Coeffs: coeffs, Bound: bound, Reason: reason})
}

// Pivot exchanges the basic variable of row `rowIdx` with column
// `col`, Gauss-eliminating the other rows. Bland's rule (spec.md
// §4.8 "Bland-style pivoting driven by bound violations") always
// picks the lowest-indexed eligible entering/leaving variable, so the
// simplex cannot cycle.
func (t *Tableau) Pivot(rowIdx, col int) error {
	row := &t.rows[rowIdx]
	pivot := row.Coeffs[col]
	if pivot.Sign() == 0 {
		return core.Errorf(core.KindInternal, "linear", "Pivot",
			"zero pivot element at row %d col %d", rowIdx, col)
	}

	inv := new(big.Rat).Inv(pivot)
	for j := range row.Coeffs {
		row.Coeffs[j].Mul(row.Coeffs[j], inv)
	}
	row.Bound.Mul(row.Bound, inv)
	row.Basic = col

	for i := range t.rows {
		if i == rowIdx {
			continue
		}
		other := &t.rows[i]
		factor := new(big.Rat).Set(other.Coeffs[col])
		if factor.Sign() == 0 {
			continue
		}
		for j := range other.Coeffs {
			scaled := new(big.Rat).Mul(row.Coeffs[j], factor)
			other.Coeffs[j].Sub(other.Coeffs[j], scaled)
		}
		scaledBound := new(big.Rat).Mul(row.Bound, factor)
		other.Bound.Sub(other.Bound, scaledBound)
	}
	return nil
}

// FindViolation returns the lowest-indexed row (Bland's rule) whose
// bound is currently violated (negative, in the standard "all rows
// >= 0" feasibility form), or -1 if the tableau is feasible.
func (t *Tableau) FindViolation() int {
	for i, r := range t.rows {
		if r.Bound.Sign() < 0 {
			return i
		}
	}
	return -1
}

// FindEnteringColumn returns the lowest-indexed column with a
// negative coefficient in the violated row (Bland's rule for the
// entering variable), or -1 if none exists — meaning the row's
// infeasibility cannot be repaired and the problem is infeasible.
func (t *Tableau) FindEnteringColumn(rowIdx int) int {
	row := t.rows[rowIdx]
	for j, c := range row.Coeffs {
		if c.Sign() < 0 {
			return j
		}
	}
	return -1
}

// Infeasible reports whether the given row cannot be repaired, and
// returns the reason built by unioning the bound-justifications of
// every row referenced (spec.md §4.8: "infeasibility produces a
// reason that unions the bound-justifications of the row").
func (t *Tableau) Infeasible(rowIdx int) ([]lit.Lit, bool) {
	if t.FindEnteringColumn(rowIdx) >= 0 {
		return nil, false
	}
	return t.rows[rowIdx].Reason, true
}

// Solve runs Bland's-rule pivoting to a fixed point: feasible
// (returns true, nil) or infeasible (returns false, reason).
func (t *Tableau) Solve() (bool, []lit.Lit) {
	for {
		rowIdx := t.FindViolation()
		if rowIdx < 0 {
			return true, nil
		}
		col := t.FindEnteringColumn(rowIdx)
		if col < 0 {
			return false, t.rows[rowIdx].Reason
		}
		if err := t.Pivot(rowIdx, col); err != nil {
			return false, t.rows[rowIdx].Reason
		}
	}
}
