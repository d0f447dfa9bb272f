package backend

import (
	"io"

	"github.com/rhartert/dimacs"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/sat"
)

// LoadDIMACS reads a standard DIMACS CNF file straight onto solver, one
// fresh SAT variable per DIMACS variable index. This is the bare-CNF
// path of spec.md §4's supplemented FlatZinc/DIMACS import-export
// feature: a pure Boolean problem has no Primitives for a Theory to
// drive, so it skips package flatten/backend's allocator entirely.
func LoadDIMACS(r io.Reader, solver *sat.Solver) error {
	cnf, err := dimacs.ParseCNF(r)
	if err != nil {
		return err
	}
	for solver.NumVars() < cnf.NumVars {
		solver.NewVar()
	}
	for _, clause := range cnf.Clauses {
		lits := make([]lit.Lit, len(clause))
		for i, v := range clause {
			if v < 0 {
				lits[i] = lit.Of(-v, false)
			} else {
				lits[i] = lit.Of(v, true)
			}
		}
		solver.AddClause(lits)
	}
	return nil
}

// DumpDIMACS writes solver's initial (non-learnt) clause database out
// as a DIMACS CNF file, for interchange with other DIMACS-speaking
// solvers.
func DumpDIMACS(w io.Writer, solver *sat.Solver) error {
	cnf := &dimacs.CNF{NumVars: solver.NumVars()}
	for _, c := range solver.Clauses() {
		clause := make(dimacs.Clause, len(c.Lits))
		for i, l := range c.Lits {
			if l.Sign() {
				clause[i] = l.Var()
			} else {
				clause[i] = -l.Var()
			}
		}
		cnf.Clauses = append(cnf.Clauses, clause)
	}
	return dimacs.WriteCNF(w, cnf)
}
