package chr

import (
	"strconv"

	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/store"
	"github.com/xDarkicex/smchr/term"
)

// slot is one VM register: either a reference to a stored constraint
// (LOOKUP/NEXT results, and register 0, the active constraint) or a
// plain value (an argument extracted by GET/GET_VAR, or an arithmetic
// result).
type slot struct {
	con *store.Constraint
	val term.Term
}

// choicepoint is what LOOKUP pushes: the alternative candidates for one
// LOOKUP, the cursor NEXT advances through them, and a register-file snapshot to
// restore before trying the next candidate. Bounded by
// core.Options.MaxChoicepointStack (spec.md §4.7: "bounded in practice
// by rule arity").
type choicepoint struct {
	pc         int // the NEXT instruction's own index, so failure resumes there
	iterReg    int
	candidates []*store.Constraint
	cursor     int
	savedRegs  []slot
}

// Machine executes one OccurrenceProgram against a store.Store and a
// shared core.Trail. "The VM runs within a single propagator wake,
// under the usual trail discipline" (spec.md §4.7): every store
// mutation below goes through store.Delete/InsertTrailed so a
// surrounding search that backtracks past this wake undoes it.
type Machine struct {
	opts  core.Options
	st    *store.Store
	trail *core.Trail

	regs []slot
	vals []float64
	cps  []choicepoint
	disj []term.Term // literals accumulated by DISJUNCT/DISJ_EQ, flushed by PROP_DISJ
}

func NewMachine(opts core.Options, st *store.Store, trail *core.Trail) *Machine {
	return &Machine{
		opts:  opts,
		st:    st,
		trail: trail,
		regs:  make([]slot, opts.MaxRegisters),
	}
}

func (m *Machine) reg(i int) (slot, error) {
	if i < 0 || i >= len(m.regs) {
		return slot{}, core.Errorf(core.KindRange, "chr", "reg",
			"register r%d out of bounds (max %d)", i, len(m.regs))
	}
	return m.regs[i], nil
}

func (m *Machine) setReg(i int, s slot) error {
	if i < 0 || i >= len(m.regs) {
		return core.Errorf(core.KindRange, "chr", "setReg",
			"register r%d out of bounds (max %d)", i, len(m.regs))
	}
	m.regs[i] = s
	return nil
}

func (m *Machine) pushVal(v float64) error {
	if len(m.vals) >= m.opts.MaxValueStack {
		return core.Errorf(core.KindRange, "chr", "pushVal", "value stack overflow (max %d)", m.opts.MaxValueStack)
	}
	m.vals = append(m.vals, v)
	return nil
}

func (m *Machine) popVal() (float64, error) {
	if len(m.vals) == 0 {
		return 0, core.Errorf(core.KindInternal, "chr", "popVal", "value stack underflow")
	}
	v := m.vals[len(m.vals)-1]
	m.vals = m.vals[:len(m.vals)-1]
	return v, nil
}

func constTerm(a ArgExpr) term.Term {
	if f, err := strconv.ParseFloat(a.Const, 64); err == nil {
		return term.Num(f)
	}
	return term.AtomTerm(term.Intern(a.Const, 0))
}

func numOf(t term.Term) (float64, bool) {
	if t.Tag() != term.TagNum {
		return 0, false
	}
	return t.AsNum(), true
}

// eqSymbol is the 2-ary constraint symbol an equality post (PROP_EQ,
// DISJ_EQ) is posted under: "=" for a positive sign, "!=" when
// negated, the same functors doc/examples.go's ExampleArithmeticGoal
// uses for an equality goal.
func eqSymbol(sign bool) *term.Atom {
	if sign {
		return term.Intern("=", 2)
	}
	return term.Intern("!=", 2)
}

// Run executes prog against the given active constraint, returning
// (true, nil) if the rule fired (heads matched, guard held, removed
// heads deleted, body posted), (false, nil) if no combination of
// partner candidates satisfies the rule, or a non-nil error for a
// genuine VM fault (register/stack overflow, division by zero).
func (m *Machine) Run(prog *OccurrenceProgram, active *store.Constraint) (bool, error) {
	m.regs = make([]slot, m.opts.MaxRegisters)
	m.vals = m.vals[:0]
	m.cps = m.cps[:0]
	m.disj = m.disj[:0]
	if err := m.setReg(0, slot{con: active}); err != nil {
		return false, err
	}

	pc := 0
	for pc < len(prog.Code) {
		instr := prog.Code[pc]
		ok, next, err := m.step(instr, pc)
		if err != nil {
			return false, err
		}
		if !ok {
			if !m.backtrack() {
				return false, nil
			}
			pc = m.cps[len(m.cps)-1].pc
			continue
		}
		pc = next
	}
	return true, nil
}

// backtrack restores the register file to the top choicepoint's
// snapshot and advances its cursor; returns false once every
// choicepoint is exhausted (the whole occurrence attempt fails).
func (m *Machine) backtrack() bool {
	for len(m.cps) > 0 {
		cp := &m.cps[len(m.cps)-1]
		cp.cursor++
		copy(m.regs, cp.savedRegs)
		if cp.cursor < len(cp.candidates) {
			return true
		}
		m.cps = m.cps[:len(m.cps)-1]
	}
	return false
}

// step executes one instruction, returning (matched, nextPC, err).
// matched == false signals "this instruction's condition failed",
// which Run turns into a backtrack rather than a hard error.
func (m *Machine) step(i Instr, pc int) (bool, int, error) {
	switch i.Op {
	case OpGet:
		src, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		if src.con == nil || i.Index >= len(src.con.Args) {
			return false, 0, core.Errorf(core.KindInternal, "chr", "GET", "register r%d holds no constraint", i.R2)
		}
		if err := m.setReg(i.R1, slot{val: src.con.Args[i.Index]}); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpGetVal:
		src, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		if src.con == nil || i.Index >= len(src.con.Args) {
			return false, 0, core.Errorf(core.KindInternal, "chr", "GET_VAL", "register r%d holds no constraint", i.R1)
		}
		return src.con.Args[i.Index].Equal(constTerm(i.Const)), pc + 1, nil

	case OpGetVar:
		src, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		if src.con == nil || i.Index >= len(src.con.Args) {
			return false, 0, core.Errorf(core.KindInternal, "chr", "GET_VAR", "register r%d holds no constraint", i.R2)
		}
		if err := m.setReg(i.R1, slot{val: src.con.Args[i.Index]}); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpGetID:
		src, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		if src.con == nil {
			return false, 0, core.Errorf(core.KindInternal, "chr", "GET_ID", "register r%d holds no constraint", i.R2)
		}
		id := term.Num(float64(src.con.Symbol.ID()))
		if err := m.setReg(i.R1, slot{val: id}); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpLookup:
		values := make([]term.Term, len(i.Regs))
		for j, r := range i.Regs {
			s, err := m.reg(r)
			if err != nil {
				return false, 0, err
			}
			values[j] = s.val
		}
		raw := m.st.Candidates(term.Intern(i.Functor, i.Arity), i.ArgSpec, values)
		// A partner occurrence can never be the active constraint
		// itself: spec.md §4.7 treats the active and its partners as
		// distinct store occurrences even when they share a functor
		// (e.g. matching two leq/2 facts against each other).
		active := m.regs[0].con
		cands := make([]*store.Constraint, 0, len(raw))
		for _, c := range raw {
			if c != active {
				cands = append(cands, c)
			}
		}
		// pc+1 is always the NEXT instruction Compile paired with this
		// LOOKUP; backtracking resumes there directly rather than
		// re-running LOOKUP (which would push a duplicate choicepoint).
		cp := choicepoint{pc: pc + 1, iterReg: i.R1, candidates: cands, cursor: -1, savedRegs: append([]slot(nil), m.regs...)}
		m.cps = append(m.cps, cp)
		if len(m.cps) > m.opts.MaxChoicepointStack {
			return false, 0, core.Errorf(core.KindRange, "chr", "LOOKUP",
				"choicepoint stack overflow (max %d)", m.opts.MaxChoicepointStack)
		}
		return true, pc + 1, nil

	case OpNext:
		if len(m.cps) == 0 || m.cps[len(m.cps)-1].iterReg != i.R1 {
			return false, 0, core.Errorf(core.KindInternal, "chr", "NEXT", "no active choicepoint for r%d", i.R1)
		}
		cp := &m.cps[len(m.cps)-1]
		if cp.cursor < 0 {
			cp.cursor = 0
		}
		if cp.cursor >= len(cp.candidates) {
			return false, pc, nil
		}
		cand := cp.candidates[cp.cursor]
		if err := m.setReg(i.R2, slot{con: cand}); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpEqual:
		a, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		b, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		return a.val.Equal(b.val), pc + 1, nil

	case OpEqualVal:
		a, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		return a.val.Equal(constTerm(i.Const)), pc + 1, nil

	case OpDelete:
		s, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		if s.con != nil {
			m.st.Delete(m.trail, s.con)
		}
		return true, pc + 1, nil

	case OpProp:
		args := make([]term.Term, len(i.Regs))
		for j, r := range i.Regs {
			s, err := m.reg(r)
			if err != nil {
				return false, 0, err
			}
			args[j] = s.val
		}
		sym := term.Intern(i.Functor, len(args))
		m.st.InsertTrailed(m.trail, sym, args)
		return true, pc + 1, nil

	case OpPropEq:
		a, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		b, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		m.st.InsertTrailed(m.trail, eqSymbol(i.Sign), []term.Term{a.val, b.val})
		return true, pc + 1, nil

	case OpDisjunct:
		args := make([]term.Term, len(i.Regs))
		for j, r := range i.Regs {
			s, err := m.reg(r)
			if err != nil {
				return false, 0, err
			}
			args[j] = s.val
		}
		lit := term.Func(term.Intern(i.Functor, len(args)), args...)
		if !i.Sign {
			lit = term.Func(term.Intern("not", 1), lit)
		}
		m.disj = append(m.disj, lit)
		return true, pc + 1, nil

	case OpDisjEq:
		a, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		b, err := m.reg(i.R2)
		if err != nil {
			return false, 0, err
		}
		m.disj = append(m.disj, term.Func(eqSymbol(i.Sign), a.val, b.val))
		return true, pc + 1, nil

	case OpPropDisj:
		if len(m.disj) == 0 {
			return true, pc + 1, nil
		}
		lits := append([]term.Term(nil), m.disj...)
		m.disj = m.disj[:0]
		m.st.InsertTrailed(m.trail, term.Intern("or", len(lits)), lits)
		return true, pc + 1, nil

	case OpFail:
		return false, pc, nil

	case OpRetry:
		return true, pc + 1, nil

	case OpEvalPush:
		s, err := m.reg(i.R1)
		if err != nil {
			return false, 0, err
		}
		f, ok := numOf(s.val)
		if !ok {
			return false, 0, core.Errorf(core.KindType, "chr", "EVAL_PUSH", "register r%d is not numeric", i.R1)
		}
		if err := m.pushVal(f); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpEvalPushVal:
		f, ok := numOf(constTerm(i.Const))
		if !ok {
			return false, 0, core.Errorf(core.KindType, "chr", "EVAL_PUSH_VAL", "constant %q is not numeric", i.Const.Const)
		}
		if err := m.pushVal(f); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpEvalPop:
		f, err := m.popVal()
		if err != nil {
			return false, 0, err
		}
		if err := m.setReg(i.R1, slot{val: term.Num(f)}); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpEvalCmp:
		b, err := m.popVal()
		if err != nil {
			return false, 0, err
		}
		a, err := m.popVal()
		if err != nil {
			return false, 0, err
		}
		return evalCmp(i.CmpOp, a, b), pc + 1, nil

	case OpEvalBinOp:
		b, err := m.popVal()
		if err != nil {
			return false, 0, err
		}
		a, err := m.popVal()
		if err != nil {
			return false, 0, err
		}
		r, err := evalBinOp(i.BinOp, a, b)
		if err != nil {
			return false, 0, err
		}
		if err := m.pushVal(r); err != nil {
			return false, 0, err
		}
		return true, pc + 1, nil

	case OpPrint, OpInc:
		return true, pc + 1, nil

	default:
		return false, 0, core.Errorf(core.KindInternal, "chr", "step", "unknown opcode %v", i.Op)
	}
}

func evalCmp(op string, a, b float64) bool {
	switch op {
	case "$=":
		return a == b
	case "$!=":
		return a != b
	case "$>":
		return a > b
	case "$>=":
		return a >= b
	case "$<":
		return a < b
	case "$<=":
		return a <= b
	default:
		return false
	}
}

func evalBinOp(op string, a, b float64) (float64, error) {
	switch op {
	case "$+":
		return a + b, nil
	case "$-":
		return a - b, nil
	case "$*":
		return a * b, nil
	case "$/":
		if b == 0 {
			return 0, core.Errorf(core.KindOverflow, "chr", "EVAL_BINOP", "division by zero")
		}
		return a / b, nil
	default:
		return 0, core.Errorf(core.KindInternal, "chr", "EVAL_BINOP", "unknown operator %q", op)
	}
}
