package chr

// Compile turns one parsed Rule into its occurrence programs: spec.md
// §4.7 "For a rule with m head constraints, one occurrence program is
// emitted per head, treating that head as the active constraint and
// the others as partners. The active is always in register 0." The
// six-step emission per program is: bind the active's own args (this
// file's processHeadArgs on register 0), LOOKUP+NEXT each partner with
// its already-bound args as the lookup key, evaluate the guard,
// DELETE every head the rule removes, emit the body, and finish with
// a RETRY instruction (spec.md: "end with RETRY or the outermost FAIL";
// backtracking on a failed match is a VM-level concern driven by the
// choicepoints LOOKUP pushes and NEXT advances, not a separate opcode
// per choice).
func Compile(rule *Rule) []*OccurrenceProgram {
	heads := rule.Heads()
	progs := make([]*OccurrenceProgram, 0, len(heads))
	for activeIdx := range heads {
		progs = append(progs, &OccurrenceProgram{
			RuleName: rule.Name,
			Active:   heads[activeIdx],
			Code:     buildProgram(rule, heads, activeIdx),
		})
	}
	return progs
}

func alloc(rc *int) int {
	r := *rc
	*rc++
	return r
}

func buildProgram(rule *Rule, heads []HeadAtom, activeIdx int) []Instr {
	var code []Instr
	regCounter := 1 // r0 is reserved for the active constraint
	varReg := map[string]int{}
	headReg := make([]int, len(heads))
	headReg[activeIdx] = 0

	code = append(code, processHeadArgs(heads[activeIdx], 0, &regCounter, varReg)...)

	for j, h := range heads {
		if j == activeIdx {
			continue
		}
		var boundPositions []int
		var boundValueRegs []int
		for i, arg := range h.Args {
			if arg.Var != "" {
				if r, ok := varReg[arg.Var]; ok {
					boundPositions = append(boundPositions, i)
					boundValueRegs = append(boundValueRegs, r)
				}
			}
		}
		iterReg := alloc(&regCounter)
		partnerReg := alloc(&regCounter)
		code = append(code, Instr{Op: OpLookup, R1: iterReg, Functor: h.Functor, Arity: len(h.Args), ArgSpec: boundPositions, Regs: boundValueRegs})
		code = append(code, Instr{Op: OpNext, R1: iterReg, R2: partnerReg})
		headReg[j] = partnerReg
		code = append(code, processHeadArgs(h, partnerReg, &regCounter, varReg)...)
	}

	for _, g := range rule.Guard {
		code = append(code, compileGuard(g, varReg, &regCounter)...)
	}

	for j := range heads {
		if j >= len(rule.Kept) {
			code = append(code, Instr{Op: OpDelete, R1: headReg[j]})
		}
	}

	for _, b := range rule.Body {
		code = append(code, compileBody(b, rule.BodyDisjunctive, varReg, &regCounter)...)
	}
	if rule.BodyDisjunctive && len(rule.Body) > 0 {
		code = append(code, Instr{Op: OpPropDisj})
	}

	code = append(code, Instr{Op: OpRetry})
	return code
}

// processHeadArgs emits, for one head atom whose constraint reference
// lives in register `reg`: GET_VAR for a variable's first occurrence
// (binding it into the compile-time environment), GET+EQUAL for a
// repeat occurrence (either within the same head, e.g. p(X,X), or a
// variable shared with an earlier head), and GET_VAL for a literal
// argument pattern.
func processHeadArgs(h HeadAtom, reg int, regCounter *int, varReg map[string]int) []Instr {
	var code []Instr
	for i, arg := range h.Args {
		switch {
		case arg.Var != "":
			if existing, ok := varReg[arg.Var]; ok {
				tmp := alloc(regCounter)
				code = append(code, Instr{Op: OpGet, R1: tmp, R2: reg, Index: i})
				code = append(code, Instr{Op: OpEqual, R1: tmp, R2: existing})
			} else {
				dst := alloc(regCounter)
				code = append(code, Instr{Op: OpGetVar, R1: dst, R2: reg, Index: i})
				varReg[arg.Var] = dst
			}
		case arg.IsConst:
			code = append(code, Instr{Op: OpGetVal, R1: reg, Index: i, Const: arg})
		}
	}
	if h.ID != "" {
		dst := alloc(regCounter)
		code = append(code, Instr{Op: OpGetID, R1: dst, R2: reg})
		varReg[h.ID] = dst
	}
	return code
}

// compileArithToReg evaluates an arithmetic ArgExpr into a register,
// via the EVAL_PUSH/EVAL_BINOP/EVAL_POP stack-machine opcodes for
// operator nodes, or a direct register reference for a leaf that is
// already bound.
func compileArithToReg(e ArgExpr, varReg map[string]int, regCounter *int) ([]Instr, int) {
	if e.Op != "" {
		lcode, lreg := compileArithToReg(*e.Left, varReg, regCounter)
		rcode, rreg := compileArithToReg(*e.Right, varReg, regCounter)
		code := append(lcode, rcode...)
		code = append(code, Instr{Op: OpEvalPush, R1: lreg})
		code = append(code, Instr{Op: OpEvalPush, R1: rreg})
		code = append(code, Instr{Op: OpEvalBinOp, BinOp: e.Op})
		dst := alloc(regCounter)
		code = append(code, Instr{Op: OpEvalPop, R1: dst})
		return code, dst
	}
	if e.IsConst {
		dst := alloc(regCounter)
		code := []Instr{
			{Op: OpEvalPushVal, Const: e},
			{Op: OpEvalPop, R1: dst},
		}
		return code, dst
	}
	if r, ok := varReg[e.Var]; ok {
		return nil, r
	}
	dst := alloc(regCounter)
	varReg[e.Var] = dst
	return nil, dst
}

func compileGuard(g GuardTerm, varReg map[string]int, regCounter *int) []Instr {
	lcode, lreg := compileArithToReg(g.Left, varReg, regCounter)
	rcode, rreg := compileArithToReg(g.Right, varReg, regCounter)
	code := append(lcode, rcode...)
	code = append(code, Instr{Op: OpEvalPush, R1: lreg})
	code = append(code, Instr{Op: OpEvalPush, R1: rreg})
	code = append(code, Instr{Op: OpEvalCmp, CmpOp: g.Op})
	return code
}

// compileBody emits one body term: an equality post (PROP_EQ/DISJ_EQ),
// a `:=` assignment (conjunctive only — rejected earlier by the parser
// for a disjunctive body), or a constraint post (PROP/DISJUNCT).
// disjunctive picks DISJ_EQ/DISJUNCT over PROP_EQ/PROP, per spec.md
// §4.7 and original_source/solver_chr.c's chr_compile_body.
func compileBody(b BodyCall, disjunctive bool, varReg map[string]int, regCounter *int) []Instr {
	if b.IsEq {
		lcode, lreg := compileArithToReg(b.EqLeft, varReg, regCounter)
		rcode, rreg := compileArithToReg(b.EqRight, varReg, regCounter)
		code := append(lcode, rcode...)
		op := OpPropEq
		if disjunctive {
			op = OpDisjEq
		}
		code = append(code, Instr{Op: op, R1: lreg, R2: rreg, Sign: b.EqSign})
		return code
	}
	if b.IsAssign {
		code, reg := compileArithToReg(b.AssignOf, varReg, regCounter)
		varReg[b.AssignTo] = reg
		return code
	}
	var code []Instr
	var argRegs []int
	for _, a := range b.Args {
		acode, r := compileArithToReg(a, varReg, regCounter)
		code = append(code, acode...)
		argRegs = append(argRegs, r)
	}
	op := OpProp
	if disjunctive {
		op = OpDisjunct
	}
	code = append(code, Instr{Op: op, Functor: b.Functor, Regs: argRegs, Sign: true})
	return code
}
