package core

// Trail is the shared backtracking mechanism: a stack of undo
// closures recorded as search proceeds and unwound on backtrack. It
// is the Go-idiomatic stand-in for the original's trail-of-patches
// approach to reversible mutation (spec.md §4.3's move() trail entry,
// §4.4's path-reversal trail function, §4.2's kill-with-trail-entry).
type Trail struct {
	undo []func()
}

// Mark returns a checkpoint to later UndoTo.
func (t *Trail) Mark() int { return len(t.undo) }

// Push records an undo action at the current trail position.
func (t *Trail) Push(f func()) { t.undo = append(t.undo, f) }

// UndoTo runs every recorded undo action back to mark, in LIFO order,
// then truncates the trail to that mark.
func (t *Trail) UndoTo(mark int) {
	for i := len(t.undo) - 1; i >= mark; i-- {
		t.undo[i]()
	}
	t.undo = t.undo[:mark]
}
