package phrase

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	s := Span{3, 8}
	if s.From() != 3 || s.To() != 8 || s.Len() != 5 {
		t.Errorf("unexpected span values for %v", s)
	}
	if !(Span{}).IsNull() || s.IsNull() {
		t.Errorf("IsNull not correct")
	}
	if e := s.Extend(Span{1, 4}); e != (Span{1, 8}) {
		t.Errorf("expected extended span (1…8), have %v", e)
	}
	if !s.Contains(Span{3, 8}) || !s.Contains(Span{4, 5}) || s.Contains(Span{2, 5}) {
		t.Errorf("Contains not correct")
	}
	if s.StrictlyContains(Span{3, 8}) || !s.StrictlyContains(Span{3, 7}) {
		t.Errorf("StrictlyContains not correct")
	}
	if s.String() != "(3…8)" {
		t.Errorf("unexpected span format %s", s)
	}
}

type text string

func (t text) Text() string { return string(t) }
func (t text) First() Token { return nil }

func TestTextOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	input := text("hello world")
	if TextOf(input, Span{6, 11}) != "world" {
		t.Errorf("expected 'world', have %q", TextOf(input, Span{6, 11}))
	}
	if TextOf(input, Span{6, 20}) != "" || TextOf(nil, Span{0, 1}) != "" {
		t.Errorf("expected empty text for invalid spans or missing input")
	}
	if PriorText(nil) != "" || NextText(nil) != "" {
		t.Errorf("expected empty text for missing token")
	}
}
