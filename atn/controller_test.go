package atn

import (
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/classify"
	"github.com/npillmayer/phrase/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// ambiguousGrammar produces several parses for inputs like "big red dog".
func ambiguousGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("Ambiguous")
	b.LHS("np").Start().Step("mod").Rep().Step("head").End()
	b.LHS("np").Start().Step("head").End()
	b.LHS("mod").Step("adjective").End()
	b.LHS("mod").Step("color").End()
	b.LHS("head").Step("noun").End()
	b.LHS("head").Step("color").End()
	b.Classify("adjective", classify.Terms("adjective", "big", "red"))
	b.Classify("color", classify.Terms("color", "red"))
	b.Classify("noun", classify.Terms("noun", "dog"))
	return build(t, b)
}

func TestMonotonicity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	chain := words(t, "big red dog")
	pr := newParseResult(g, chain.First(), Options{SkipTokenLimit: 1}, nil)
	last := 0
	for pr.ContinueParsing() {
		n := pr.NumParses()
		if n < last {
			t.Errorf("number of parses decreased from %d to %d", last, n)
		}
		last = n
	}
	if !pr.IsComplete() {
		t.Errorf("expected parse result to be complete")
	}
	if last < 3 {
		t.Errorf("expected at least 3 parses, have %d", last)
	}
	pr.Dump()
	// stability
	size := pr.size()
	if pr.ContinueParsing() || pr.GenerateParses(0) != last {
		t.Errorf("expected complete parse result to be stable")
	}
	if pr.size() != size || pr.NumParses() != last {
		t.Errorf("complete parse result has been modified")
	}
}

func TestParseInvariants(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	inputs := []string{"big red dog", "red red", "big xx dog", "dog", "big big"}
	for _, opts := range []Options{{}, {SkipTokenLimit: 1}, {ConsumeAllText: true, SkipTokenLimit: 2}} {
		for _, input := range inputs {
			chain := words(t, input)
			pr := newParseResult(g, chain.First(), opts, nil)
			pr.GenerateParses(0)
			for _, s := range pr.states {
				if s.skipNum > opts.SkipTokenLimit {
					t.Errorf("%q: state %v exceeds skip limit %d", input, s, opts.SkipTokenLimit)
				}
				if s.rule != nil && (s.step < 0 || s.step >= len(s.rule.Steps)) {
					t.Errorf("%q: state %v has step out of range", input, s)
				}
			}
			for _, p := range pr.Parses() {
				span := p.Span()
				if span.From() > span.To() || span.To() > uint64(len(input)) {
					t.Errorf("%q: invalid span %v", input, span)
				}
				if opts.ConsumeAllText && span.To() != uint64(len(input)) {
					t.Errorf("%q: parse %v does not consume all text", input, p)
				}
				if rt := roundTrip(p); rt != p.Text() {
					t.Errorf("%q: categorized tokens %q do not reproduce %q", input, rt, p.Text())
				}
			}
		}
	}
}

// roundTrip concatenates the categorized tokens of a parse, together with
// the input text between them.
func roundTrip(p *Parse) string {
	var b strings.Builder
	tokens := p.CategorizedTokens()
	for i, ct := range tokens {
		if i > 0 {
			prev := tokens[i-1].Token.Span().To()
			b.WriteString(phrase.TextOf(ct.Token.Input(), phrase.Span{prev, ct.Token.Span().From()}))
		}
		b.WriteString(ct.Token.Lexeme())
	}
	return b.String()
}

func TestFirstParseOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	pr := parseAll(t, g, "big red dog", Options{FirstParseOnly: true})
	if pr.NumParses() != 1 {
		t.Errorf("expected search to stop after first parse, have %d parses", pr.NumParses())
	}
	if !pr.IsComplete() {
		t.Errorf("expected parse result to be complete")
	}
}

func TestExpansionLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := npGrammar(t)
	chain := words(t, "big red dog")
	pr, err := NewParser(g).Parse(chain.First(), Options{ExpansionLimit: 2}, nil)
	if err != ErrExpansionLimit {
		t.Errorf("expected expansion limit to be hit, have error %v", err)
	}
	if !pr.IsComplete() || pr.Err() != ErrExpansionLimit {
		t.Errorf("expected aborted parse result to be complete")
	}
	if _, err = NewParser(g).Parse(nil, Options{}, nil); err != ErrNoInput {
		t.Errorf("expected ErrNoInput for missing token, have %v", err)
	}
}

func TestStartRuleSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	b := grammar.NewBuilder("Starts")
	b.LHS("noun").Start().Step("dog").End()
	b.LHS("animal").Start().Step("dog").End()
	g := build(t, b)
	if pr := parseAll(t, g, "dog", Options{}); pr.NumParses() != 2 {
		t.Errorf("expected 2 parses for 2 start rules, have %d", pr.NumParses())
	}
	pr := parseAll(t, g, "dog", Options{StartRules: []string{"animal"}})
	if pr.NumParses() != 1 || pr.Parse(0).Tree().String() != "animal(dog)" {
		t.Errorf("expected a single parse for start rule 'animal'")
	}
}

func TestStopSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := npGrammar(t)
	chain := words(t, "big red dog")
	stop := NewStopSet(8) // "dog"
	pr, err := NewParser(g).Parse(chain.First(), Options{}, stop)
	if err != nil {
		t.Fatal(err)
	}
	if pr.GenerateParses(0) != 0 {
		t.Errorf("did not expect parse to cross stop position")
	}
	var nilSet *StopSet
	if nilSet.Contains(0) || nilSet.Size() != 0 {
		t.Errorf("expected nil stop set to be empty")
	}
	pr = parseAll(t, g, "big red dog", Options{})
	stop = NewStopSet()
	stop.AddParse(pr.Parse(0))
	if offs := stop.Offsets(); len(offs) != 3 || offs[0] != 0 || offs[2] != 8 {
		t.Errorf("expected stop set {0,4,8}, have %v", offs)
	}
}

func TestConcurrentViews(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	pr := parseAll(t, g, "big red dog", Options{})
	parses := pr.Parses()
	var wg sync.WaitGroup
	trees := make([][]string, 4)
	for i := range trees {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, p := range parses {
				trees[i] = append(trees[i], p.Tree().String())
			}
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(trees); i++ {
		if strings.Join(trees[i], "|") != strings.Join(trees[0], "|") {
			t.Errorf("concurrent readers see different parse trees")
		}
	}
}
