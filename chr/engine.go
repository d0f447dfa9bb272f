package chr

import (
	"github.com/sirupsen/logrus"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/store"
)

// Engine owns the compiled occurrence programs for one loaded CHR
// source (spec.md §6's `load(name)` with a `.chr` suffix) and drives
// them against a constraint store: when a new constraint is
// activated, Wake tries every occurrence program registered under its
// functor, in declaration order, until one fires.
type Engine struct {
	opts    core.Options
	logger  *logrus.Logger
	st      *store.Store
	trail   *core.Trail
	machine *Machine

	byFunctor map[string][]*OccurrenceProgram
}

func NewEngine(opts core.Options, st *store.Store, trail *core.Trail) *Engine {
	return &Engine{
		opts:      opts,
		logger:    logrus.StandardLogger(),
		st:        st,
		trail:     trail,
		machine:   NewMachine(opts, st, trail),
		byFunctor: make(map[string][]*OccurrenceProgram),
	}
}

func (e *Engine) SetLogger(l *logrus.Logger) { e.logger = l }

// Load parses and compiles CHR source, registering every rule's
// occurrence programs under their active head's functor. Declaring
// symbols with the store (commutativity, lookup subsets) is the
// caller's job via store.Declare — Load only builds bytecode.
func (e *Engine) Load(src string) (*Program, error) {
	prog, err := Parse(src)
	if err != nil {
		e.logger.WithFields(logrus.Fields{"system": "chr", "op": "Load"}).Error(err)
		return nil, err
	}
	for i := range prog.Rules {
		for _, occ := range Compile(&prog.Rules[i]) {
			e.byFunctor[occ.Active.Functor] = append(e.byFunctor[occ.Active.Functor], occ)
		}
	}
	return prog, nil
}

// Wake activates one constraint: every occurrence program registered
// for its functor runs in turn until one fires (spec.md §4.7: the
// active constraint is matched against each of its occurrences).
// Returns true if some rule fired.
func (e *Engine) Wake(c *store.Constraint) (bool, error) {
	for _, occ := range e.byFunctor[c.Symbol.Name] {
		fired, err := e.machine.Run(occ, c)
		if err != nil {
			e.logger.WithFields(logrus.Fields{"system": "chr", "op": "Wake", "rule": occ.RuleName}).Error(err)
			return false, err
		}
		if fired {
			e.logger.WithFields(logrus.Fields{"system": "chr", "rule": occ.RuleName}).Debug("rule fired")
			return true, nil
		}
	}
	return false, nil
}

// Clear drops every compiled occurrence program, so a caller (package
// chr's Watcher, on file-change recompilation) can rebuild from a
// fresh Load without accumulating stale rules from the previous
// version of the source.
func (e *Engine) Clear() {
	e.byFunctor = make(map[string][]*OccurrenceProgram)
}

// Programs returns the compiled occurrence programs for a functor,
// mainly for tests and for solver.Context.Dump's introspection.
func (e *Engine) Programs(functor string) []*OccurrenceProgram {
	return e.byFunctor[functor]
}
