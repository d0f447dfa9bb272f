package expr

import "github.com/xDarkicex/smchr/term"

var (
	trueTerm  = term.Bool(true)
	falseTerm = term.Bool(false)
)

func numTerm(n float64) term.Term { return term.Num(n) }

// Var wraps a term.Var as a leaf expression.
func Var(v *term.Var) Expr { return Leaf(term.Var(v)) }
