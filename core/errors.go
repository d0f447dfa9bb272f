// Package core holds the small set of types shared by every layer of the
// solver: the error taxonomy from spec.md §7 and the logging/options
// plumbing that ties diagnostics to a single solver.Context.
package core

import "fmt"

// Kind classifies a SolverError per the error taxonomy in spec.md §7.
// Unsatisfiability is never represented as a Kind: it is a normal result,
// not an error.
type Kind int

const (
	// KindParse covers malformed CHR source: bad tokens, runaway strings.
	KindParse Kind = iota
	// KindType covers type-inst mismatches and incompatible typesigs.
	KindType
	// KindConfig covers conflicting priorities, duplicate solver
	// registration, lookups that exceed the configured arity cap.
	KindConfig
	// KindRange covers non-range-restricted CHR rules, too many head
	// constraints, register/stack overflow in the CHR VM.
	KindRange
	// KindOverflow covers rational numerator/denominator overflow in the
	// linear theory, or too many SAT variables.
	KindOverflow
	// KindProtocol covers a theory solver violating the propagator API
	// contract (late clause, posting after fail, etc).
	KindProtocol
	// KindInternal covers invariant violations: inconsistent union-find,
	// a store hit whose stored args mismatch the probe.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindType:
		return "TypeError"
	case KindConfig:
		return "ConfigError"
	case KindRange:
		return "RangeError"
	case KindOverflow:
		return "OverflowError"
	case KindProtocol:
		return "ProtocolError"
	case KindInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Fatal reports whether errors of this kind indicate a correctness bug
// that should panic the solver after logging, rather than abort only the
// current query (spec.md §7 propagation policy).
func (k Kind) Fatal() bool {
	return k == KindProtocol || k == KindInternal
}

// SolverError is the single error type returned across package boundaries.
// It generalises the teacher's *LogicError with a Kind so callers (and
// solver.Context's logging) can branch on the taxonomy from spec.md §7.
type SolverError struct {
	Kind    Kind
	System  string // originating package: "sat", "store", "chr", ...
	Op      string // originating function
	Message string
}

func (e *SolverError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("%s in %s.%s: %s", e.Kind, e.System, e.Op, e.Message)
	}
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Op, e.Message)
}

// NewError builds a SolverError of the given kind.
func NewError(kind Kind, system, op, message string) *SolverError {
	return &SolverError{Kind: kind, System: system, Op: op, Message: message}
}

// Errorf is NewError with fmt-style formatting of the message.
func Errorf(kind Kind, system, op, format string, args ...interface{}) *SolverError {
	return NewError(kind, system, op, fmt.Sprintf(format, args...))
}

// AsSolverError extracts a *SolverError from err, if any.
func AsSolverError(err error) (*SolverError, bool) {
	se, ok := err.(*SolverError)
	return se, ok
}
