// Package eq implements the optional fast-path equality theory of
// spec.md §4.8: registers on every commutative equality symbol; when
// decided true it binds via package unionfind; when decided false it
// computes the reason if the arguments are already equal (a
// contradiction).
package eq

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
	"github.com/xDarkicex/smchr/unionfind"
)

// Theory is the equality propagator state: just the shared trail, the
// underlying store/union-find being package-level free functions.
type Theory struct {
	trail *core.Trail
}

func New(trail *core.Trail) *Theory { return &Theory{trail: trail} }

// DecideTrue binds x and y via the union-find, justified by l. This
// is the entire job of the fast path: "there is no separate equality
// propagator on the fast path" because store lookups already go
// modulo equality once bound.
func (t *Theory) DecideTrue(l lit.Lit, x, y *term.Var) error {
	return unionfind.Bind(t.trail, l, x, y)
}

// DecideFalse checks whether x and y are already equal; if so, that
// is a contradiction (the negative literal conflicts with a prior
// binding) and the returned reason justifies it. If they are not
// already equal, there is nothing to do on the fast path — any
// future attempt to bind them will need to re-check.
func (t *Theory) DecideFalse(x, y *term.Var) (reason []lit.Lit, contradiction bool) {
	return unionfind.Match(x, y, nil)
}
