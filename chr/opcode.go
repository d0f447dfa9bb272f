package chr

import "fmt"

// Op is one CHR VM instruction per spec.md §4.7's opcode table.
type Op int

const (
	OpGet       Op = iota // r1 := args(r2)[i]
	OpGetVal              // fail unless args(r1)[i] == constant
	OpGetVar              // first occurrence of a head variable: bind r1 := args(r2)[i]
	OpGetID               // r1 := identity(r2)
	OpLookup              // r1 := iterator over store matches for (symbol, boundArgSpec); pushes the choicepoint NEXT resumes from
	OpNext                // advance r1's choicepoint; bind r2 to the next candidate
	OpEqual               // fail unless r_a and r_b hold the same bound value
	OpEqualVal            // fail unless r_a holds the given constant
	OpDelete              // remove the constraint held in r1 from the store
	OpProp                // post a new constraint: symbol applied to the given registers
	OpPropEq              // post r_a $= r_b (or $!=, by Sign) as its own constraint
	OpDisjunct            // add a constraint literal to the building disjunction
	OpDisjEq              // add an r_a $= r_b (or $!=) literal to the building disjunction
	OpPropDisj            // finish the building disjunction and post it
	OpFail                // unconditional failure: pop a choicepoint and retry, or abort
	OpRetry               // end of program: stop and report the rule fired; remaining choicepoints are not revisited
	OpEvalPush            // push the value held in a register onto the value stack
	OpEvalPushVal         // push a constant onto the value stack
	OpEvalPop             // pop the value stack into a register
	OpEvalCmp             // pop two values, push the comparison's boolean result
	OpEvalBinOp           // pop two values, push the result of $+ $- $* $/
	OpPrint               // no-op in this VM; Compile never emits it
	OpInc                 // no-op in this VM; Compile never emits it (`#` identities use GET_ID)
)

func (o Op) String() string {
	names := [...]string{
		"GET", "GET_VAL", "GET_VAR", "GET_ID", "LOOKUP", "NEXT", "EQUAL", "EQUAL_VAL",
		"DELETE", "PROP", "PROP_EQ", "DISJUNCT", "DISJ_EQ", "PROP_DISJ", "FAIL", "RETRY",
		"EVAL_PUSH", "EVAL_PUSH_VAL", "EVAL_POP", "EVAL_CMP", "EVAL_BINOP", "PRINT", "INC",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "UNKNOWN"
}

// Instr is one bytecode instruction. Not every field is used by every
// opcode; see the per-opcode comments above for which fields apply.
type Instr struct {
	Op       Op
	R1, R2   int     // register operands
	Index    int     // argument index (GET/GET_VAL/GET_VAR)
	Const    ArgExpr // literal operand (GET_VAL/EQUAL_VAL/EVAL_PUSH_VAL)
	Functor  string  // constraint symbol name (LOOKUP/PROP)
	Arity    int     // functor's declared arity (LOOKUP, to intern the right symbol)
	ArgSpec  []int   // which argument positions are bound at LOOKUP time
	Regs     []int   // argument registers for PROP
	CmpOp    string  // "$=" "$!=" "$>" "$>=" "$<" "$<=" for EVAL_CMP
	BinOp    string  // "$+" "$-" "$*" "$/" for EVAL_BINOP
	Sign     bool    // true = positive assertion, false = negated (PROP/PROP_EQ/DISJUNCT/DISJ_EQ)
}

func (i Instr) String() string {
	return fmt.Sprintf("%s r%d r%d idx=%d const=%s fn=%s", i.Op, i.R1, i.R2, i.Index, i.Const.String(), i.Functor)
}

// OccurrenceProgram is the bytecode emitted for one head atom acting
// as the active constraint, per spec.md §4.7: "one occurrence program
// per head atom... the active is always in register 0".
type OccurrenceProgram struct {
	RuleName string
	Active   HeadAtom // which head this program treats as active (register 0)
	Code     []Instr
}
