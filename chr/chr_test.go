package chr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xDarkicex/smchr/core"
	"github.com/xDarkicex/smchr/store"
	"github.com/xDarkicex/smchr/term"
)

func TestLexerTokenizesOperatorsAndKeywords(t *testing.T) {
	toks := NewLexer(`type leq(num, num). leq(X,Y) \ leq(X,Y) <=> Z $<= Y | true.`).Lex()
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Contains(t, types, TokKwType)
	require.Contains(t, types, TokBackslash)
	require.Contains(t, types, TokSimplify)
	require.Contains(t, types, TokDollarLe)
	require.Contains(t, types, TokVar)
	require.Equal(t, TokEOF, types[len(types)-1])
}

func TestLexerRejectsBadToken(t *testing.T) {
	toks := NewLexer(`leq(X, @)`).Lex()
	last := toks[len(toks)-1]
	require.Equal(t, TokError, last.Type)
}

func TestParseTypeDeclaration(t *testing.T) {
	prog, err := Parse(`type leq(num, num).`)
	require.NoError(t, err)
	require.Len(t, prog.Types, 1)
	require.Equal(t, "leq", prog.Types[0].Functor)
	require.Equal(t, []string{"num", "num"}, prog.Types[0].ArgTypes)
}

func TestParseSimplificationRuleWithGuardAndBody(t *testing.T) {
	prog, err := Parse(`leq(X,Y), leq(Y,X) <=> X $= Y | eq(X,Y).`)
	require.NoError(t, err)
	require.Len(t, prog.Rules, 1)
	r := prog.Rules[0]
	require.Equal(t, KindSimplify, r.Kind)
	require.Len(t, r.Removed, 2)
	require.Len(t, r.Guard, 1)
	require.Equal(t, "$=", r.Guard[0].Op)
	require.Len(t, r.Body, 1)
	require.Equal(t, "eq", r.Body[0].Functor)
}

func TestParseSimpagationRuleSplitsKeptAndRemoved(t *testing.T) {
	prog, err := Parse(`leq(X,Y) \ leq(X,Y) <=> true.`)
	require.NoError(t, err)
	require.Len(t, prog.Rules, 1)
	r := prog.Rules[0]
	require.Equal(t, KindSimpagation, r.Kind)
	require.Len(t, r.Kept, 1)
	require.Len(t, r.Removed, 1)
}

func TestParsePropagationRuleKeepsAllHeads(t *testing.T) {
	prog, err := Parse(`leq(X,Y), leq(Y,Z) ==> leq(X,Z).`)
	require.NoError(t, err)
	r := prog.Rules[0]
	require.Equal(t, KindPropagate, r.Kind)
	require.Len(t, r.Kept, 2)
	require.Empty(t, r.Removed)
}

func TestParseRewriteRule(t *testing.T) {
	prog, err := Parse(`double(X) --> add(X,X).`)
	require.NoError(t, err)
	require.Len(t, prog.Rewrites, 1)
	require.Equal(t, "double", prog.Rewrites[0].Pattern.Functor)
	require.Equal(t, "add", prog.Rewrites[0].Replacement.Functor)
}

func TestParseRejectsBadSyntax(t *testing.T) {
	_, err := Parse(`leq(X,Y) <=>`)
	require.Error(t, err)
}

func TestParseBodyEqualityPost(t *testing.T) {
	prog, err := Parse(`eq(X,Y) <=> X $= Y.`)
	require.NoError(t, err)
	r := prog.Rules[0]
	require.False(t, r.BodyDisjunctive)
	require.Len(t, r.Body, 1)
	require.True(t, r.Body[0].IsEq)
	require.True(t, r.Body[0].EqSign)
}

func TestParseBodyDisequalityPost(t *testing.T) {
	prog, err := Parse(`neq(X,Y) <=> X $!= Y.`)
	require.NoError(t, err)
	r := prog.Rules[0]
	require.Len(t, r.Body, 1)
	require.True(t, r.Body[0].IsEq)
	require.False(t, r.Body[0].EqSign)
}

func TestParseDisjunctiveBodySeparatesBySemicolon(t *testing.T) {
	prog, err := Parse(`p(X) <=> q(X) ; r(X).`)
	require.NoError(t, err)
	r := prog.Rules[0]
	require.True(t, r.BodyDisjunctive)
	require.Len(t, r.Body, 2)
	require.Equal(t, "q", r.Body[0].Functor)
	require.Equal(t, "r", r.Body[1].Functor)
}

func TestParseDisjunctiveBodyRejectsAssignment(t *testing.T) {
	_, err := Parse(`p(X) <=> Y := X $+ 1 ; q(X).`)
	require.Error(t, err)
}

func TestCompileDisjunctiveBodyEmitsDisjunctThenPropDisj(t *testing.T) {
	prog, err := Parse(`p(X) <=> q(X) ; r(X).`)
	require.NoError(t, err)
	occs := Compile(&prog.Rules[0])
	code := occs[0].Code

	var ops []Op
	for _, instr := range code {
		ops = append(ops, instr.Op)
	}
	require.Contains(t, ops, OpDisjunct)
	require.Contains(t, ops, OpPropDisj)
	require.Equal(t, OpRetry, ops[len(ops)-1])
	require.Equal(t, OpPropDisj, ops[len(ops)-2])
}

func TestEngineFiresEqualityPostIntoStore(t *testing.T) {
	opts := core.DefaultOptions()
	st := store.New(opts)
	trail := &core.Trail{}
	sym := term.Intern("eq", 2)
	a := term.AtomTerm(term.Intern("a", 0))
	b := term.AtomTerm(term.Intern("b", 0))
	c := st.Insert(sym, []term.Term{a, b})

	engine := NewEngine(opts, st, trail)
	_, err := engine.Load(`eq(X,Y) <=> X $= Y.`)
	require.NoError(t, err)

	fired, err := engine.Wake(c)
	require.NoError(t, err)
	require.True(t, fired)

	eqSym := term.Intern("=", 2)
	cands := st.Candidates(eqSym, nil, nil)
	require.Len(t, cands, 1)
	require.True(t, cands[0].Args[0].Equal(a))
	require.True(t, cands[0].Args[1].Equal(b))
}

func TestEngineFiresDisjunctiveBodyIntoStore(t *testing.T) {
	opts := core.DefaultOptions()
	st := store.New(opts)
	trail := &core.Trail{}
	sym := term.Intern("p", 2)
	a := term.AtomTerm(term.Intern("a", 0))
	b := term.AtomTerm(term.Intern("b", 0))
	c := st.Insert(sym, []term.Term{a, b})

	engine := NewEngine(opts, st, trail)
	_, err := engine.Load(`p(X,Y) <=> q(X,Y) ; r(X,Y).`)
	require.NoError(t, err)

	fired, err := engine.Wake(c)
	require.NoError(t, err)
	require.True(t, fired)

	orSym := term.Intern("or", 2)
	cands := st.Candidates(orSym, nil, nil)
	require.Len(t, cands, 1)

	wantQ := term.Func(term.Intern("q", 2), a, b)
	wantR := term.Func(term.Intern("r", 2), a, b)
	require.True(t, cands[0].Args[0].Equal(wantQ))
	require.True(t, cands[0].Args[1].Equal(wantR))
}

func TestCompileEmitsOneOccurrenceProgramPerHead(t *testing.T) {
	prog, err := Parse(`leq(X,Y), leq(X,Y) <=> true.`)
	require.NoError(t, err)
	occs := Compile(&prog.Rules[0])
	require.Len(t, occs, 2)
	require.Equal(t, "leq", occs[0].Active.Functor)
	require.Equal(t, "leq", occs[1].Active.Functor)
}

func TestEngineFiresDuplicateRemovalRule(t *testing.T) {
	opts := core.DefaultOptions()
	st := store.New(opts)
	trail := &core.Trail{}
	sym := term.Intern("leq", 2)
	a := term.AtomTerm(term.Intern("a", 0))
	b := term.AtomTerm(term.Intern("b", 0))
	c1 := st.Insert(sym, []term.Term{a, b})
	c2 := st.Insert(sym, []term.Term{a, b})
	require.NotNil(t, c2)

	engine := NewEngine(opts, st, trail)
	_, err := engine.Load(`leq(X,Y), leq(X,Y) <=> true.`)
	require.NoError(t, err)

	fired, err := engine.Wake(c1)
	require.NoError(t, err)
	require.True(t, fired)

	_, stillThere1 := st.Get(sym, []term.Term{a, b})
	require.False(t, stillThere1)

	truth := term.Intern("true", 0)
	require.Len(t, st.Candidates(truth, nil, nil), 1)
}

func TestEngineGuardSelectsOrderedPair(t *testing.T) {
	opts := core.DefaultOptions()
	st := store.New(opts)
	trail := &core.Trail{}
	sym := term.Intern("num", 1)
	c3 := st.Insert(sym, []term.Term{term.Num(3)})
	c5 := st.Insert(sym, []term.Term{term.Num(5)})

	engine := NewEngine(opts, st, trail)
	_, err := engine.Load(`num(X), num(Y) <=> X $> Y | max(X,Y).`)
	require.NoError(t, err)

	fired, err := engine.Wake(c3)
	require.NoError(t, err)
	require.True(t, fired)

	_, stillThree := st.Get(sym, []term.Term{term.Num(3)})
	_, stillFive := st.Get(sym, []term.Term{term.Num(5)})
	require.False(t, stillThree)
	require.False(t, stillFive)
	require.NotNil(t, c5)

	maxSym := term.Intern("max", 2)
	cands := st.Candidates(maxSym, nil, nil)
	require.Len(t, cands, 1)
	require.Equal(t, float64(5), cands[0].Args[0].AsNum())
	require.Equal(t, float64(3), cands[0].Args[1].AsNum())
}

func TestEngineDoesNotFireWithoutASecondOccurrence(t *testing.T) {
	opts := core.DefaultOptions()
	st := store.New(opts)
	trail := &core.Trail{}
	sym := term.Intern("lt", 2)
	one := term.AtomTerm(term.Intern("one", 0))
	two := term.AtomTerm(term.Intern("two", 0))
	// lt(one, two): a single fact, no partner to combine with.
	c := st.Insert(sym, []term.Term{one, two})

	engine := NewEngine(opts, st, trail)
	_, err := engine.Load(`lt(X,Y), lt(X,Y) <=> true.`)
	require.NoError(t, err)

	fired, err := engine.Wake(c)
	require.NoError(t, err)
	require.False(t, fired, "no second occurrence exists, the rule must not fire")
}
