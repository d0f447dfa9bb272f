// Package solver wires every pass (term, expr, rewrite, flatten,
// backend, sat, propagate, store, chr) into the single top-level
// Context spec.md §6 describes interacting through `load(name)` and
// `execute(filename, lineno, goal)`.
package solver

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xDarkicex/smchr/backend"
	"github.com/xDarkicex/smchr/chr"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/expr"
	"github.com/xDarkicex/smchr/flatten"
	"github.com/xDarkicex/smchr/propagate"
	"github.com/xDarkicex/smchr/rewrite"
	"github.com/xDarkicex/smchr/sat"
	"github.com/xDarkicex/smchr/store"
	"github.com/xDarkicex/smchr/term"
)

// Loader resolves a name passed to Load/Watch to source text, the
// narrow seam a CLI front end or an in-memory test harness implements
// differently (spec.md §6: "load(name) ... the name resolves to
// source text through some implementation-defined mechanism").
type Loader interface {
	Load(name string) (string, error)
}

// Frontend is the full external command surface spec.md §6 names.
type Frontend interface {
	Load(name string) error
	Execute(filename string, lineno int, goal term.Term) Result
}

// FileLoader reads CHR source from the filesystem, the default Loader
// a Context uses when none is supplied.
type FileLoader struct{}

func (FileLoader) Load(name string) (string, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Context owns every pass's state for one solving session: the trail
// every pass backtracks through, the constraint store, the type
// registry, the rewrite table, the propagator queue, the SAT engine,
// and the CHR engine, plus whatever live .chr watcher Watch started.
type Context struct {
	Opts   core.Options
	Logger core.Logger

	Trail   *core.Trail
	Store   *store.Store
	Types   *term.Registry
	Rewrite *rewrite.Table
	Queue   *propagate.Queue
	Solver  *sat.Solver
	CHR     *chr.Engine

	loader  Loader
	watcher *chr.Watcher
}

// New builds a fresh Context with all passes wired together and no
// program loaded yet.
func New(opts core.Options) *Context {
	trail := &core.Trail{}
	st := store.New(opts)
	ctx := &Context{
		Opts:    opts,
		Logger:  core.NewLogger(),
		Trail:   trail,
		Store:   st,
		Types:   term.NewRegistry(),
		Rewrite: rewrite.NewTable(),
		Queue:   propagate.NewQueue(opts.PriorityLevels),
		Solver:  sat.NewSolver(opts),
		CHR:     chr.NewEngine(opts, st, trail),
		loader:  FileLoader{},
	}
	return ctx
}

// SetLoader overrides how Load/Watch resolve a name to source text,
// e.g. in tests that load from an in-memory map instead of disk.
func (c *Context) SetLoader(l Loader) { c.loader = l }

// Load implements spec.md §6's `load(name)`: a `.chr`-suffixed name
// compiles CHR source into the running CHR engine; anything else is
// rejected, since rewrite rules and type declarations are loaded as
// part of the same CHR source file per spec.md §6's grammar.
func (c *Context) Load(name string) error {
	if !strings.HasSuffix(name, ".chr") {
		return core.Errorf(core.KindConfig, "solver", "Load",
			"%s: only .chr sources are loadable", name)
	}
	src, err := c.loader.Load(name)
	if err != nil {
		return core.Errorf(core.KindConfig, "solver", "Load", "%s: %v", name, err)
	}
	_, err = c.CHR.Load(src)
	return err
}

// Watch is Load plus a live fsnotify.Watcher that recompiles the
// source into the same CHR engine on every write, for interactive use
// of the `load(name)` surface (spec.md §6).
func (c *Context) Watch(path string) (*chr.Watcher, error) {
	w, err := chr.NewWatcher(path, c.CHR)
	if err != nil {
		return nil, err
	}
	c.watcher = w
	return w, nil
}

// ResultKind classifies what Execute found.
type ResultKind int

const (
	ResultSAT ResultKind = iota
	ResultUNSAT
	ResultError
)

// Result is what spec.md §6's `execute` returns: either the residual
// conjunction of decided Boolean atoms witnessing satisfiability, the
// bottom sentinel, or an error sentinel carrying a *core.SolverError.
type Result struct {
	Kind     ResultKind
	Residue  expr.Expr
	Err      *core.SolverError
}

// Execute implements spec.md §6's `execute(filename, lineno, goal)`:
// rewrite the goal, lower it to the canonical expression layer,
// flatten and Tseitin-encode it to CNF, hand the CNF to the backend
// pass, and run the SAT engine with the arithmetic theories wired in
// as its Theory. filename/lineno are carried through purely for
// diagnostics (spec.md's external command signature), not used by the
// solving pipeline itself.
func (c *Context) Execute(filename string, lineno int, goal term.Term) Result {
	rewritten, err := rewrite.NewPass(c.Rewrite, c.Opts.RewriteMaxDepth).Apply(goal)
	if err != nil {
		return c.errResult(filename, lineno, "Execute", err)
	}

	e, err := Compile(rewritten)
	if err != nil {
		return c.errResult(filename, lineno, "Execute", err)
	}

	enc := flatten.NewEncoder()
	cnf, err := enc.Encode(e)
	if err != nil {
		return c.errResult(filename, lineno, "Execute", err)
	}

	b := backend.Build(cnf, c.Solver)
	status := c.Solver.Solve()

	switch status {
	case sat.StatusUNSAT:
		return Result{Kind: ResultUNSAT}
	case sat.StatusSAT:
		return Result{Kind: ResultSAT, Residue: residue(b.Alloc.Assignment())}
	default:
		serr := core.NewError(core.KindInternal, "solver", "Execute", "sat.Solve returned StatusUnknown")
		return Result{Kind: ResultError, Err: serr}
	}
}

func (c *Context) errResult(filename string, lineno int, op string, err error) Result {
	serr, ok := core.AsSolverError(err)
	if !ok {
		serr = core.NewError(core.KindInternal, "solver", op, err.Error())
	}
	if c.Logger != nil {
		core.LogError(c.Logger, serr)
	}
	return Result{Kind: ResultError, Err: serr}
}

// residue builds the "residual conjunction" spec.md §6 says a
// satisfiable query returns: the conjunction of every decided atom,
// positive or negated per its Boolean value.
func residue(assignment map[*term.Var]bool) expr.Expr {
	if len(assignment) == 0 {
		return expr.True()
	}
	lits := make([]expr.Expr, 0, len(assignment))
	for v, val := range assignment {
		leaf := expr.Var(v)
		if val {
			lits = append(lits, leaf)
		} else {
			lits = append(lits, expr.Not(leaf))
		}
	}
	return expr.And(lits...)
}

// Dump renders a one-shot text snapshot of solver state: trail depth,
// clause/learnt counts by LBD tier, and store symbol count. Grounded
// on original_source/debug.c and show.h's interactive state dumps,
// reworked as a single formatted string logged at Debug level rather
// than written straight to a terminal.
func (c *Context) Dump() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "trail: %d literals\n", c.Solver.TrailLen())
	fmt.Fprintf(&buf, "clauses: %d initial, %d learnt\n", len(c.Solver.Clauses()), len(c.Solver.Learnts()))
	tiers := c.Solver.LearntTierCounts()
	fmt.Fprintf(&buf, "learnt tiers: core=%d mid=%d local=%d recent=%d\n",
		tiers["core"], tiers["mid"], tiers["local"], tiers["recent"])
	fmt.Fprintf(&buf, "store: %d symbols\n", c.Store.SymbolCount())
	fmt.Fprintf(&buf, "conflicts: %d, restarts: %d\n", c.Solver.TotalConflicts, c.Solver.TotalRestarts)

	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"system": "solver", "op": "Dump"}).Debug(buf.String())
	}
	return buf.String()
}
