package atn

import (
	"context"
	"testing"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func seekGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("Seek")
	b.LHS("w").Start().Step("a").End()
	b.LHS("ww").Start().Step("a").Step("b").Step("c").End()
	b.LHS("m").Start().Step("b").End()
	return build(t, b)
}

func TestSeekParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := npGrammar(t)
	chain := words(t, "the big dog barks at a red dog")
	p := NewParser(g)
	pr, err := p.SeekParse(chain.First(), Options{ConsumeAllText: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pr == nil || pr.NumParses() != 1 {
		t.Fatalf("expected to find a parse")
	}
	if text := pr.Parse(0).Text(); text != "big dog" {
		t.Errorf("expected to find 'big dog', found %q", text)
	}
	pr, err = p.SeekNextParse(pr.Parse(0), Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pr == nil || pr.Parse(0).Text() != "red dog" {
		t.Fatalf("expected to find 'red dog' next")
	}
	pr, err = p.SeekNextParse(pr.Parse(0), Options{}, nil)
	if pr != nil || err != nil {
		t.Errorf("did not expect another parse, have %v, %v", pr, err)
	}
}

func TestSeekAllSubsumption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := seekGrammar(t)
	chain := words(t, "a b c x b")
	groups, err := NewParser(g).SeekAll(context.Background(), chain, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups of parses, have %d", len(groups))
	}
	first := groups[0]
	if len(first.Parses) != 2 || !first.IsSelected(0) || first.IsSelected(1) {
		t.Errorf("expected 'a b c' to be selected and 'a' to be subsumed")
	}
	if first.Span() != (phrase.Span{0, 5}) {
		t.Errorf("expected first group to span (0…5), have %v", first.Span())
	}
	if sel := groups[1].Selected(); len(sel) != 1 || sel[0].Span() != (phrase.Span{8, 9}) {
		t.Errorf("expected second group to consist of the final 'b'")
	}
	var selected []*Parse
	for _, grp := range groups {
		selected = append(selected, grp.Selected()...)
	}
	for i, p := range selected {
		for j, q := range selected {
			if i != j && p.Span().StrictlyContains(q.Span()) {
				t.Errorf("parse %v subsumes parse %v", p, q)
			}
		}
	}
}

func TestSeekAllAmbiguous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	chain := words(t, "big red dog")
	groups, err := NewParser(g).SeekAll(context.Background(), chain, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, have %d", len(groups))
	}
	sel := groups[0].Selected()
	if len(sel) != 2 {
		t.Fatalf("expected 2 ambiguous parses for 'big red dog', have %d", len(sel))
	}
	for _, p := range sel {
		if p.Text() != "big red dog" {
			t.Errorf("expected selected parse to cover 'big red dog', covers %q", p.Text())
		}
	}
}

func TestSeekAllWithStopSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := seekGrammar(t)
	chain := words(t, "a b c x b")
	groups, err := NewParser(g).SeekAll(context.Background(), chain, Options{}, NewStopSet(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Errorf("expected 3 groups with 'c' blocked, have %d", len(groups))
	}
}

func TestSeekAllCancel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := seekGrammar(t)
	chain := words(t, "a b c x b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	groups, err := NewParser(g).SeekAll(ctx, chain, Options{}, nil)
	if err != context.Canceled {
		t.Errorf("expected seek to be cancelled, have %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("did not expect groups after cancellation")
	}
}

func TestGroupSpanOfSelectedParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.atn")
	defer teardown()
	//
	g := seekGrammar(t)
	pr := parseAll(t, g, "a b c", Options{})
	if pr.NumParses() != 2 {
		t.Fatalf("expected 2 parses of 'a b c', have %d", pr.NumParses())
	}
	long, short := pr.Parse(0), pr.Parse(1)
	if long.Span().Len() < short.Span().Len() {
		long, short = short, long
	}
	grp := &Group{Result: pr, Parses: []*Parse{long, short}, selected: []bool{false, true}}
	if grp.Span() != short.Span() {
		t.Errorf("expected group span %v of the selected parse, have %v", short.Span(), grp.Span())
	}
	grp.selected[0] = true
	if grp.Span() != long.Span() {
		t.Errorf("expected group span %v of the longest parse, have %v", long.Span(), grp.Span())
	}
}
