package chr

import (
	"fmt"

	"github.com/xDarkicex/smchr/core"
)

// Parser implements recursive-descent parsing over the CHR grammar of
// spec.md §6, in the same match/check/advance style as
// classical.Parser, generalized from propositional connectives to CHR
// declarations, rules and arithmetic guard/body expressions.
type Parser struct {
	tokens  []Token
	current int
}

// Parse compiles CHR source text into a Program, or a KindParse
// SolverError on the first bad token or malformed construct.
func Parse(src string) (*Program, error) {
	toks := NewLexer(src).Lex()
	for _, t := range toks {
		if t.Type == TokError {
			return nil, core.Errorf(core.KindParse, "chr", "Parse",
				"bad token %q at position %d", t.Value, t.Position)
		}
	}
	p := &Parser{tokens: toks}
	prog := &Program{}
	for !p.isAtEnd() {
		if err := p.parseTopLevel(prog); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func (p *Parser) parseTopLevel(prog *Program) error {
	switch {
	case p.check(TokKwType):
		return p.parseTypeOrPriority(prog)
	default:
		return p.parseRuleOrRewrite(prog)
	}
}

func (p *Parser) parseTypeOrPriority(prog *Program) error {
	p.advance() // consume "type"
	if p.match(TokKwPriority) {
		functor, args, err := p.parseFunctorPattern()
		if err != nil {
			return err
		}
		_ = args
		prio, err := p.expectIdent("priority level (low|medium|high)")
		if err != nil {
			return err
		}
		if err := p.expectDot(); err != nil {
			return err
		}
		prog.Priorities = append(prog.Priorities, PriorityDecl{Functor: functor, Priority: prio})
		return nil
	}

	functor, err := p.expectIdent("constraint symbol name")
	if err != nil {
		return err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return err
	}
	var types []string
	var isVar []bool
	for {
		v := false
		if p.match(TokKwVar) {
			if _, err := p.expect(TokKwOf, "of"); err != nil {
				return err
			}
			v = true
		}
		t, err := p.expectIdent("type-inst")
		if err != nil {
			return err
		}
		types = append(types, t)
		isVar = append(isVar, v)
		if !p.match(TokComma) {
			break
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return err
	}
	if err := p.expectDot(); err != nil {
		return err
	}
	prog.Types = append(prog.Types, TypeDecl{Functor: functor, ArgTypes: types, ArgIsVar: isVar})
	return nil
}

// parseRuleOrRewrite parses one CHR rule or rewrite rule terminated by
// a period, covering `H <=> B.`, `H ==> B.`, `Kept \ Removed <=> B.`
// and `Pattern --> Replacement.`.
func (p *Parser) parseRuleOrRewrite(prog *Program) error {
	firstHead, err := p.parseHeadAtom()
	if err != nil {
		return err
	}

	var heads []HeadAtom
	heads = append(heads, firstHead)
	for p.match(TokComma) {
		h, err := p.parseHeadAtom()
		if err != nil {
			return err
		}
		heads = append(heads, h)
	}

	var kept []HeadAtom
	if p.match(TokBackslash) {
		kept = heads
		heads = nil
		h, err := p.parseHeadAtom()
		if err != nil {
			return err
		}
		heads = append(heads, h)
		for p.match(TokComma) {
			h, err := p.parseHeadAtom()
			if err != nil {
				return err
			}
			heads = append(heads, h)
		}
	}

	switch {
	case p.match(TokRewrite):
		if len(heads) != 1 || len(kept) != 0 {
			return core.Errorf(core.KindParse, "chr", "parseRuleOrRewrite",
				"rewrite rule must have exactly one pattern head")
		}
		repl, err := p.parseHeadAtom()
		if err != nil {
			return err
		}
		if err := p.expectDot(); err != nil {
			return err
		}
		prog.Rewrites = append(prog.Rewrites, RewriteRule{Pattern: heads[0], Replacement: repl})
		return nil

	case p.match(TokSimplify):
		rule := Rule{Kind: KindSimplify, Removed: heads, Kept: kept}
		if len(kept) > 0 {
			rule.Kind = KindSimpagation
		}
		return p.finishRule(prog, &rule)

	case p.match(TokPropagate):
		if len(kept) > 0 {
			return core.Errorf(core.KindParse, "chr", "parseRuleOrRewrite",
				"propagation rules do not take a \\ simpagation split")
		}
		rule := Rule{Kind: KindPropagate, Kept: heads}
		return p.finishRule(prog, &rule)

	default:
		return core.Errorf(core.KindParse, "chr", "parseRuleOrRewrite",
			"expected <=>, ==> or --> at position %d", p.peek().Position)
	}
}

// finishRule parses the optional `guard |` prefix and the body, then
// the terminating period, and appends the rule to prog.
func (p *Parser) finishRule(prog *Program, rule *Rule) error {
	guard, body, disjunctive, err := p.parseGuardAndBody()
	if err != nil {
		return err
	}
	rule.Guard = guard
	rule.Body = body
	rule.BodyDisjunctive = disjunctive
	rule.Name = fmt.Sprintf("rule_%d", len(prog.Rules))
	prog.Rules = append(prog.Rules, *rule)
	return p.expectDot()
}

// parseGuardAndBody parses `Guard | Body` or a bare `Body`. The guard
// (if present) is always comma-joined. The body is either
// comma-joined (a conjunction, every term posted together) or
// `;`-joined (a disjunction, one DISJUNCT/DISJ_EQ per alternative,
// finished by a single PROP_DISJ) — never both within the same body,
// mirroring original_source/solver_chr.c's single `and` flag per
// occurrence.
func (p *Parser) parseGuardAndBody() ([]GuardTerm, []BodyCall, bool, error) {
	firstTerms, err := p.parseCommaGuardOrBody()
	if err != nil {
		return nil, nil, false, err
	}

	if p.match(TokBar) {
		guard, err := termsToGuard(firstTerms)
		if err != nil {
			return nil, nil, false, err
		}
		bodyTerms, disjunctive, err := p.parseBodyTerms()
		if err != nil {
			return nil, nil, false, err
		}
		body, err := termsToBody(bodyTerms, disjunctive)
		if err != nil {
			return nil, nil, false, err
		}
		return guard, body, disjunctive, nil
	}

	// No guard: firstTerms is the body's leading (comma-joined) group.
	if p.match(TokSemi) {
		if len(firstTerms) != 1 {
			return nil, nil, false, core.Errorf(core.KindParse, "chr", "parseGuardAndBody",
				"a disjunctive body cannot mix `,` and `;` at position %d", p.peek().Position)
		}
		rest, err := p.parseSemiGroup()
		if err != nil {
			return nil, nil, false, err
		}
		body, err := termsToBody(append(firstTerms, rest...), true)
		return nil, body, true, err
	}
	body, err := termsToBody(firstTerms, false)
	return nil, body, false, err
}

// parseBodyTerms parses the body that follows a guard's `|`: a
// comma-joined conjunction, or — if the first term is immediately
// followed by `;` — a `;`-joined disjunction.
func (p *Parser) parseBodyTerms() ([]rawTerm, bool, error) {
	if p.check(TokDot) {
		return nil, false, nil
	}
	first, err := p.parseOneTerm()
	if err != nil {
		return nil, false, err
	}
	terms := []rawTerm{first}
	if p.match(TokSemi) {
		rest, err := p.parseSemiGroup()
		return append(terms, rest...), true, err
	}
	for p.match(TokComma) {
		t, err := p.parseOneTerm()
		if err != nil {
			return nil, false, err
		}
		terms = append(terms, t)
	}
	return terms, false, nil
}

// parseSemiGroup parses one `;`-separated alternative list, the first
// of which has already been consumed by the caller.
func (p *Parser) parseSemiGroup() ([]rawTerm, error) {
	var out []rawTerm
	for {
		t, err := p.parseOneTerm()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if !p.match(TokSemi) {
			break
		}
	}
	return out, nil
}

// rawTerm is either a guard comparison or a body call/assignment;
// disambiguated once the `|` separator (or its absence) is known.
type rawTerm struct {
	guard *GuardTerm
	call  *BodyCall
}

func (p *Parser) parseCommaGuardOrBody() ([]rawTerm, error) {
	if p.check(TokDot) {
		return nil, nil
	}
	var out []rawTerm
	t, err := p.parseOneTerm()
	if err != nil {
		return nil, err
	}
	out = append(out, t)
	for p.match(TokComma) {
		t, err := p.parseOneTerm()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *Parser) parseOneTerm() (rawTerm, error) {
	if p.check(TokVar) && p.peekAt(1).Type == TokAssign {
		name := p.advance().Value
		p.advance() // :=
		rhs, err := p.parseArith()
		if err != nil {
			return rawTerm{}, err
		}
		return rawTerm{call: &BodyCall{IsAssign: true, AssignTo: name, AssignOf: rhs}}, nil
	}

	// A lowercase identifier in call position (followed by '(', or by
	// nothing that continues an arithmetic expression) is a constraint
	// functor, not an atom constant — parseArith's primary parser
	// treats a bare identifier as a constant, which is only correct
	// when the identifier is an operand inside a guard comparison.
	if p.check(TokIdent) {
		switch p.peekAt(1).Type {
		case TokLParen, TokDot, TokComma, TokBar, TokSemi, TokEOF:
			functor := p.advance().Value
			args, err := p.parseCallArgs()
			if err != nil {
				return rawTerm{}, err
			}
			return rawTerm{call: &BodyCall{Functor: functor, Args: args}}, nil
		}
	}

	lhs, err := p.parseArith()
	if err != nil {
		return rawTerm{}, err
	}
	if op, ok := p.matchGuardOp(); ok {
		rhs, err := p.parseArith()
		if err != nil {
			return rawTerm{}, err
		}
		return rawTerm{guard: &GuardTerm{Op: op, Left: lhs, Right: rhs}}, nil
	}
	if lhs.Op != "" || lhs.IsConst {
		return rawTerm{}, core.Errorf(core.KindParse, "chr", "parseOneTerm",
			"expected a constraint call or comparison at position %d", p.peek().Position)
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return rawTerm{}, err
	}
	return rawTerm{call: &BodyCall{Functor: lhs.Var, Args: args}}, nil
}

func (p *Parser) matchGuardOp() (string, bool) {
	ops := map[TokenType]string{
		TokDollarEq: "$=", TokDollarNeq: "$!=", TokDollarGt: "$>",
		TokDollarGe: "$>=", TokDollarLt: "$<", TokDollarLe: "$<=",
	}
	if op, ok := ops[p.peek().Type]; ok {
		p.advance()
		return op, true
	}
	return "", false
}

// parseArith parses `$+`/`$-` (YFX, left-assoc) over `$*`/`$/` (XFY in
// spec.md §6, treated left-assoc here since arithmetic on a stack
// machine does not distinguish) over a primary term.
func (p *Parser) parseArith() (ArgExpr, error) {
	left, err := p.parseArithTerm()
	if err != nil {
		return ArgExpr{}, err
	}
	for p.check(TokDollarPlus) || p.check(TokDollarMinus) {
		op := p.advance().Value
		right, err := p.parseArithTerm()
		if err != nil {
			return ArgExpr{}, err
		}
		l, r := left, right
		left = ArgExpr{Op: op, Left: &l, Right: &r}
	}
	return left, nil
}

func (p *Parser) parseArithTerm() (ArgExpr, error) {
	left, err := p.parseArithPrimary()
	if err != nil {
		return ArgExpr{}, err
	}
	for p.check(TokDollarMul) || p.check(TokDollarDiv) {
		op := p.advance().Value
		right, err := p.parseArithPrimary()
		if err != nil {
			return ArgExpr{}, err
		}
		l, r := left, right
		left = ArgExpr{Op: op, Left: &l, Right: &r}
	}
	return left, nil
}

func (p *Parser) parseArithPrimary() (ArgExpr, error) {
	if p.match(TokLParen) {
		e, err := p.parseArith()
		if err != nil {
			return ArgExpr{}, err
		}
		if _, err := p.expect(TokRParen, ")"); err != nil {
			return ArgExpr{}, err
		}
		return e, nil
	}
	if p.check(TokNumber) || p.check(TokString) {
		t := p.advance()
		return ArgExpr{IsConst: true, Const: t.Value}, nil
	}
	if p.check(TokVar) {
		t := p.advance()
		return ArgExpr{Var: t.Value}, nil
	}
	if p.check(TokIdent) {
		t := p.advance()
		return ArgExpr{IsConst: true, Const: t.Value}, nil
	}
	return ArgExpr{}, core.Errorf(core.KindParse, "chr", "parseArithPrimary",
		"expected a term at position %d", p.peek().Position)
}

func (p *Parser) parseHeadAtom() (HeadAtom, error) {
	functor, err := p.expectIdent("constraint functor")
	if err != nil {
		return HeadAtom{}, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return HeadAtom{}, err
	}
	h := HeadAtom{Functor: functor, Args: args}
	if p.match(TokHash) {
		id, err := p.expectVarOrIdent("identity binding")
		if err != nil {
			return HeadAtom{}, err
		}
		h.ID = id
	}
	return h, nil
}

func (p *Parser) parseCallArgs() ([]ArgExpr, error) {
	if !p.match(TokLParen) {
		return nil, nil
	}
	var args []ArgExpr
	if !p.check(TokRParen) {
		for {
			a, err := p.parseArith()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(TokComma) {
				break
			}
		}
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseFunctorPattern() (string, []ArgExpr, error) {
	functor, err := p.expectIdent("constraint symbol name")
	if err != nil {
		return "", nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return "", nil, err
	}
	return functor, args, nil
}

func termsToGuard(terms []rawTerm) ([]GuardTerm, error) {
	var out []GuardTerm
	for _, t := range terms {
		if t.guard == nil {
			return nil, core.Errorf(core.KindParse, "chr", "termsToGuard",
				"expected a comparison in the guard, found a constraint call")
		}
		out = append(out, *t.guard)
	}
	return out, nil
}

// termsToBody converts the raw parsed terms of a rule body into
// BodyCalls. A bare `$=`/`$!=` comparison becomes an equality post
// (IsEq); any other comparison operator has no body-position meaning
// and is rejected. disjunctive rejects `:=` assignment, which only
// makes sense as a conjunctive side effect (spec.md §4.7; grounded on
// solver_chr.c's and-gated PRINT/INC check, generalized to `:=`).
func termsToBody(terms []rawTerm, disjunctive bool) ([]BodyCall, error) {
	var out []BodyCall
	for _, t := range terms {
		switch {
		case t.call != nil:
			if disjunctive && t.call.IsAssign {
				return nil, core.Errorf(core.KindParse, "chr", "termsToBody",
					"assignment `:=` is not allowed in a disjunctive body")
			}
			out = append(out, *t.call)
		case t.guard != nil && (t.guard.Op == "$=" || t.guard.Op == "$!="):
			out = append(out, BodyCall{
				IsEq:    true,
				EqSign:  t.guard.Op == "$=",
				EqLeft:  t.guard.Left,
				EqRight: t.guard.Right,
			})
		default:
			return nil, core.Errorf(core.KindParse, "chr", "termsToBody",
				"expected a constraint call, assignment, or $=/$!= equality post in the body, found a bare comparison")
		}
	}
	return out, nil
}

// --- token-stream helpers, mirroring classical.Parser's shape ---

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == TokEOF }

func (p *Parser) peek() Token { return p.tokens[p.current] }

func (p *Parser) peekAt(offset int) Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() Token { return p.tokens[p.current-1] }

func (p *Parser) expect(t TokenType, want string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, core.Errorf(core.KindParse, "chr", "expect",
		"expected %q at position %d, found %q", want, p.peek().Position, p.peek().Value)
}

func (p *Parser) expectDot() error {
	_, err := p.expect(TokDot, ".")
	return err
}

func (p *Parser) expectIdent(what string) (string, error) {
	if p.check(TokIdent) {
		return p.advance().Value, nil
	}
	return "", core.Errorf(core.KindParse, "chr", "expectIdent",
		"expected %s at position %d", what, p.peek().Position)
}

func (p *Parser) expectVarOrIdent(what string) (string, error) {
	if p.check(TokVar) || p.check(TokIdent) || p.check(TokNumber) {
		return p.advance().Value, nil
	}
	return "", core.Errorf(core.KindParse, "chr", "expectVarOrIdent",
		"expected %s at position %d", what, p.peek().Position)
}
