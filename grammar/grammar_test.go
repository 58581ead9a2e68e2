package grammar

import (
	"testing"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	b := NewBuilder("NP")
	b.LHS("np").Start().ID("np-1").Step("det").Opt().Step("adjective").Opt().Rep().Step("noun").End()
	b.LHS("np").Step("pronoun").End()
	b.Classify("det", ClassifierFunc(func(tok phrase.Token) bool { return tok.Lexeme() == "the" }))
	b.Classify("adjective", ClassifierFunc(func(tok phrase.Token) bool { return tok.Lexeme() == "big" }))
	b.Classify("noun", ClassifierFunc(func(tok phrase.Token) bool { return tok.Lexeme() == "dog" }))
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	if len(g.RulesFor("np")) != 2 {
		t.Errorf("expected 2 rules for np, have %d", len(g.RulesFor("np")))
	}
	if !g.IsRuleCategory("np") || g.IsRuleCategory("noun") {
		t.Errorf("rule categories not recognized correctly")
	}
	if len(g.ClassifiersFor("noun")) != 1 || len(g.ClassifiersFor("np")) != 0 {
		t.Errorf("classifiers not registered correctly")
	}
	start := g.StartRules()
	if len(start) != 1 || start[0].ID != "np-1" {
		t.Errorf("expected a single start rule np-1")
	}
	if len(g.StartRules("vp")) != 0 {
		t.Errorf("did not expect start rules for vp")
	}
	r := g.Rule(0)
	if r.String() != "np ::= [det? adjective?+ noun]" {
		t.Errorf("unexpected rule %s", r)
	}
	if len(g.Rules()) != 2 || g.Rule(2) != nil {
		t.Errorf("expected grammar to hold 2 rules")
	}
}

func TestTerminalSteps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	b := NewBuilder("T")
	b.LHS("a").Start().Step("x").Step("y").Opt().Step("z").Opt().End()
	b.LHS("b").Start().Step("x").Terminal().Step("y").End()
	b.LHS("c").Start().Step("x").Opt().Step("y").Opt().End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	for i, expected := range [][]int{{0, 1, 2}, {0, 1}, {0, 1}} {
		term := g.Rule(i).TerminalSteps()
		if len(term) != len(expected) {
			t.Errorf("rule %s: expected terminal steps %v, have %v", g.Rule(i), expected, term)
			continue
		}
		for j := range term {
			if term[j] != expected[j] {
				t.Errorf("rule %s: expected terminal steps %v, have %v", g.Rule(i), expected, term)
			}
		}
	}
	if !g.Rule(0).IsLastStep(2) || g.Rule(0).IsLastStep(1) {
		t.Errorf("IsLastStep not correct")
	}
	if g.Rule(1).IsTerminalStep(5) || g.Rule(1).Step(5) != nil {
		t.Errorf("expected out of range steps to be rejected")
	}
}

func TestNullableCategories(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	b := NewBuilder("N")
	b.LHS("s").Start().Step("noun").Step("mods").End()
	b.LHS("mods").Step("adj").Opt().Step("outer").End()
	b.LHS("outer").Step("adv").Opt().End()
	b.LHS("np").Step("det").Step("noun").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsNullable("outer") || !g.IsNullable("mods") {
		t.Errorf("expected 'outer' and 'mods' to derive the empty phrase")
	}
	if g.IsNullable("np") || g.IsNullable("s") || g.IsNullable("adj") {
		t.Errorf("did not expect 's', 'np' or 'adj' to derive the empty phrase")
	}
	if !g.Rule(0).IsTerminalStep(0) {
		t.Errorf("expected step 0 of %s to be terminal", g.Rule(0))
	}
	if !g.Rule(1).IsTerminalStep(0) {
		t.Errorf("expected step 0 of %s to be terminal", g.Rule(1))
	}
}

func TestValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	if _, err := NewBuilder("empty").Grammar(); err == nil {
		t.Errorf("expected grammar without rules to be rejected")
	}
	b := NewBuilder("nosteps")
	b.LHS("a").Start().End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected rule without steps to be rejected")
	}
	b = NewBuilder("unresolved")
	b.LHS("a").Start().Step(" x ").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected unresolvable category to be rejected")
	}
	b = NewBuilder("nostart")
	b.LHS("a").Step("x").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected grammar without start rule to be rejected")
	}
	b = NewBuilder("modifier")
	b.LHS("a").Start().Opt().Step("x").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected modifier before first step to be rejected")
	}
	b = NewBuilder("filter")
	b.LHS("a").Start().FilterWith("nope").Step("x").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected unknown filter to be rejected")
	}
}

func chain(t *testing.T, input string) *scanner.TokenChain {
	c, err := scanner.Chain(input, scanner.Words(input))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestStepTests(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	c := chain(t, "Hello, world (again)")
	hello, comma, world, paren := c.At(0), c.At(1), c.At(2), c.At(3)
	for i, test := range []struct {
		test     StepTest
		tok      phrase.Token
		expected Verdict
	}{
		{DelimTest{}, world, NotApplicable},
		{DelimTest{Post: true, Require: ","}, world, Fail},
		{DelimTest{Post: true, Forbid: ","}, world, Pass},
		{DelimTest{Require: "(", Post: false}, world, Fail},
		{DelimTest{Forbid: "("}, paren, Pass},
		{ClusterTest{Glued: true}, comma, Pass},
		{ClusterTest{Glued: true}, world, Fail},
		{ClusterTest{Glued: false}, world, Pass},
		{ClusterTest{Glued: true}, hello, NotApplicable},
	} {
		if v := test.test.Accept(test.tok, nil); v != test.expected {
			t.Errorf("test #%d: expected %v for %q, have %v", i, test.expected, test.tok.Lexeme(), v)
		}
	}
}

func TestCombine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	c := chain(t, "dog")
	na := TestFunc(func(phrase.Token, Context) Verdict { return NotApplicable })
	pass := TestFunc(func(phrase.Token, Context) Verdict { return Pass })
	fail := TestFunc(func(phrase.Token, Context) Verdict { return Fail })
	tok := c.First()
	if Combine(tok, nil) != Pass || Combine(tok, nil, na, na) != Pass {
		t.Errorf("expected empty or not-applicable pipelines to pass")
	}
	if Combine(tok, nil, pass, na, fail) != Fail {
		t.Errorf("expected a single failing test to fail the pipeline")
	}
	step := &RuleStep{Category: "noun", tests: []StepTest{pass, na}}
	if !step.Accepts(tok, nil) {
		t.Errorf("expected step to accept token")
	}
	step.cluster = ClusterTest{Glued: true}
	if step.Verify(tok, nil) != Pass {
		t.Errorf("expected cluster test not to apply to first token")
	}
	step.postDelim = DelimTest{Post: true, Require: "!"}
	if step.Accepts(tok, nil) {
		t.Errorf("expected post-delimiter test to fail")
	}
}

func TestTokenFilters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	b := NewBuilder("F")
	b.Filter("words", FilterFunc(func(tok phrase.Token) bool {
		return tok.TokType() == scanner.Ident
	}))
	b.LHS("a").Start().FilterWith("words").Step("x").End()
	b.LHS("b").Start().Step("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	c := chain(t, "x, y")
	a, bb := g.Rule(0), g.Rule(1)
	if next := g.NextToken(a, c.First()); next == nil || next.Lexeme() != "y" {
		t.Errorf("expected filter to pass over ',', have %v", next)
	}
	if next := g.NextToken(bb, c.First()); next == nil || next.Lexeme() != "," {
		t.Errorf("expected unfiltered rule to see ',', have %v", next)
	}
	if g.AcceptToken(a, c.At(1)).Lexeme() != "y" {
		t.Errorf("expected ',' not to be accepted")
	}
	if g.NextToken(a, c.At(2)) != nil {
		t.Errorf("expected no token after end of input")
	}
}

func TestPopVerification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.grammar")
	defer teardown()
	//
	onlyDogs := TestFunc(func(tok phrase.Token, ctx Context) Verdict {
		if tok.Lexeme() == "dog" {
			return Pass
		}
		return Fail
	})
	b := NewBuilder("P")
	b.LHS("s").Start().Step("np").Pop("np", onlyDogs).End()
	b.LHS("np").Step("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	c := chain(t, "dog cat")
	s := g.Rule(0)
	if !s.VerifyPop(c.At(0), nil, "np") || s.VerifyPop(c.At(1), nil, "np") {
		t.Errorf("pop step for np not applied correctly")
	}
	if !s.VerifyPop(c.At(1), nil, "vp") {
		t.Errorf("did not expect pop step for np to apply to vp")
	}
}
