// Package unionfind implements the variable union-find with
// justifications from spec.md §4.4: deref, bind (trail-reversible
// path reversal plus constraint transplantation), and match
// (reason-building path walk). Combined with package store this forms
// the equality theory: there is no separate equality propagator on
// the fast path.
package unionfind

import (
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/lit"
	"github.com/xDarkicex/smchr/term"
)

// Deref follows next-links to the current representative of x.
func Deref(x *term.Var) *term.Var {
	for x.Next != x {
		x = x.Next
	}
	return x
}

// isRepresentative reports whether x is currently its own root.
func isRepresentative(x *term.Var) bool { return x.Next == x }

// Bind attaches x to y (or y to x, choosing the side whose root has
// fewer attached constraints) with the justifying literal l, per
// spec.md §4.4. Only the losing side's own argument (not necessarily
// its root) is relinked: if it is not already a representative, the
// path from it up to its root is reversed in place first, and it is
// then linked directly onto the winning root, carrying l. The reversal
// and the final link are installed on trail so backtracking restores
// the original forward path. All constraint IDs on the losing root are
// transplanted onto the winning root's list. Grounded on
// original_source/var.c's solver_bind_vars/var_reverse.
func Bind(trail *core.Trail, l lit.Lit, x, y *term.Var) error {
	rx, ry := Deref(x), Deref(y)
	if rx == ry {
		return nil
	}

	loserArg, loserRoot, winner := x, rx, ry
	if len(rx.Constraints) > len(ry.Constraints) {
		loserArg, loserRoot, winner = y, ry, rx
	}

	undoReverse := reversePathToTrail(loserArg, loserRoot)

	oldNext, oldLink := loserArg.Next, loserArg.Link
	oldWinnerConstraints := append([]uint64(nil), winner.Constraints...)
	oldLoserConstraints := append([]uint64(nil), loserRoot.Constraints...)

	loserArg.Next = winner
	loserArg.Link = l
	winner.Constraints = append(winner.Constraints, loserRoot.Constraints...)

	trail.Push(func() {
		loserArg.Next = oldNext
		loserArg.Link = oldLink
		winner.Constraints = oldWinnerConstraints
		loserRoot.Constraints = oldLoserConstraints
		undoReverse()
	})
	return nil
}

// reversePathToTrail reverses the Next-chain from x up to its current
// root r in place, so that the old root now points toward the node
// that used to sit nearest it, and so on back down to x itself; x is
// left with its original Next/Link untouched (the caller, Bind,
// overwrites both to attach x onto the winning root). It returns an
// undo closure that restores the original forward chain, for the
// caller to fold into its own trail entry (spec.md §4.4: "the reversal
// is installed as a trail function"). Grounded on
// original_source/var.c's var_reverse, which walks the same chain
// shifting each edge's justification literal one step as it goes.
func reversePathToTrail(x, r *term.Var) func() {
	if x == r {
		return func() {}
	}
	type step struct {
		node *term.Var
		next *term.Var
		link lit.Lit
	}
	var steps []step
	for n := x; n != r; n = n.Next {
		steps = append(steps, step{node: n, next: n.Next, link: n.Link})
	}

	oldRNext, oldRLink := r.Next, r.Link

	last := len(steps) - 1
	r.Next = steps[last].node
	r.Link = steps[last].link
	for i := last; i >= 1; i-- {
		steps[i].node.Next = steps[i-1].node
		steps[i].node.Link = steps[i-1].link
	}
	// x itself (steps[0]) keeps its old Next/Link; Bind sets both next.

	return func() {
		r.Next, r.Link = oldRNext, oldRLink
		for _, s := range steps {
			s.node.Next = s.next
			s.node.Link = s.link
		}
	}
}

// Match decides whether x and y are currently equal, appending the
// justifying literals along both paths to reason on success (spec.md
// §4.4). It marks the path from x to its root, then walks from y
// upward collecting literals until a mark is hit or the root is
// reached without a hit.
func Match(x, y *term.Var, reason []lit.Lit) ([]lit.Lit, bool) {
	marked := make(map[*term.Var]bool)
	var xLits []lit.Lit
	for n := x; ; n = n.Next {
		marked[n] = true
		if n.Next == n {
			break
		}
		xLits = append(xLits, n.Link)
	}

	var yLits []lit.Lit
	for n := y; ; n = n.Next {
		if marked[n] {
			out := append(append([]lit.Lit{}, reason...), xLits...)
			out = append(out, yLits...)
			return out, true
		}
		if n.Next == n {
			return reason, false
		}
		yLits = append(yLits, n.Link)
	}
}
