// Command examples is a worked, runnable tour of the solver: building
// goals out of package term, running them through solver.Context, and
// reading back the residual assignment or the unsat/err sentinel.
// Grounded on the teacher's old doc/examples.go (a similar top-to-
// bottom usage tour, one Example func per feature), rebuilt here over
// the new pipeline instead of the old bool/vector/gate API.
package main

import (
	"fmt"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/solver"
	"github.com/xDarkicex/smchr/term"
)

func fn(name string, args ...term.Term) term.Term {
	return term.Func(term.Intern(name, len(args)), args...)
}

// ExamplePlainBoolean shows a bare Boolean goal: a or b, with no
// arithmetic primitives at all.
func ExamplePlainBoolean() {
	fmt.Println("=== Plain Boolean goal ===")

	a := term.NewVar("a")
	b := term.NewVar("b")
	goal := fn("or", term.Var(a), term.Var(b))

	ctx := solver.New(core.DefaultOptions())
	res := ctx.Execute("examples.smchr", 1, goal)

	fmt.Printf("a or b: %v\n\n", res.Kind)
}

// ExampleGateCircuit builds a two-gate circuit the way the teacher's
// old gates.go built AND/OR/XOR networks, but as a single Boolean
// goal over package term instead of a Gate/Circuit object graph: out =
// (in1 and in2) or (not in1).
func ExampleGateCircuit() {
	fmt.Println("=== Gate circuit as a goal ===")

	in1 := term.NewVar("in1")
	in2 := term.NewVar("in2")
	out := term.NewVar("out")

	andGate := fn("and", term.Var(in1), term.Var(in2))
	orGate := fn("or", andGate, fn("not", term.Var(in1)))

	// out <-> orGate, spelled out with and/or/not since those are the
	// only connectives Compile recognises (no built-in iff).
	iff := fn("or",
		fn("and", term.Var(out), orGate),
		fn("and", fn("not", term.Var(out)), fn("not", orGate)),
	)

	ctx := solver.New(core.DefaultOptions())
	res := ctx.Execute("examples.smchr", 8, iff)
	fmt.Printf("circuit: %v\n\n", res.Kind)
}

// ExampleArithmeticGoal shows a reified arithmetic comparison: x = 3 +
// 4, the kind of goal a CHR rule's guard would post.
func ExampleArithmeticGoal() {
	fmt.Println("=== Arithmetic goal ===")

	x := term.NewVar("x")
	goal := fn("=", term.Var(x), fn("+", term.Num(3), term.Num(4)))

	ctx := solver.New(core.DefaultOptions())
	res := ctx.Execute("examples.smchr", 12, goal)
	fmt.Printf("x = 3+4: %v\n\n", res.Kind)
}

// ExampleUnsatGoal shows the bottom sentinel: a flatly contradictory
// Boolean goal.
func ExampleUnsatGoal() {
	fmt.Println("=== Unsatisfiable goal ===")

	p := term.NewVar("p")
	goal := fn("and", term.Var(p), fn("not", term.Var(p)))

	ctx := solver.New(core.DefaultOptions())
	res := ctx.Execute("examples.smchr", 16, goal)
	fmt.Printf("p and not p: %v\n\n", res.Kind)
}

// ExampleDump shows the debug-dump surface, grounded on the teacher's
// benchmark.go-style "run it then print stats" structure.
func ExampleDump() {
	fmt.Println("=== Dump ===")

	a := term.NewVar("a")
	ctx := solver.New(core.DefaultOptions())
	ctx.Execute("examples.smchr", 20, fn("or", term.Var(a), fn("not", term.Var(a))))
	fmt.Println(ctx.Dump())
}

func main() {
	ExamplePlainBoolean()
	ExampleGateCircuit()
	ExampleArithmeticGoal()
	ExampleUnsatGoal()
	ExampleDump()
}
