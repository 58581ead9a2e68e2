package atn

import (
	"context"
	"sort"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
)

// Parser parses phrases of a grammar. A parser does not hold any state of
// its own and may be used for more than one parse concurrently.
type Parser struct {
	g *grammar.Grammar
}

// NewParser creates a parser for a grammar.
func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{g: g}
}

// Grammar returns the grammar of the parser.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.g
}

// Parse starts a parse at a token and searches for the first parse. Use the
// returned parse result to find more parses. stop may be nil.
//
// An error is returned if tok is nil or the search has been aborted.
func (p *Parser) Parse(tok phrase.Token, opts Options, stop *StopSet) (*ParseResult, error) {
	if tok == nil {
		return nil, ErrNoInput
	}
	pr := newParseResult(p.g, tok, opts, stop)
	pr.GenerateParses(1)
	return pr, pr.Err()
}

// SeekParse searches for a parse starting at tok. If no parse starts at tok,
// it tries the following tokens, until a parse is found or the input is
// exhausted. Parses found by seeking do not have to reach the end of the input.
//
// If no parse can be found, SeekParse returns nil.
func (p *Parser) SeekParse(tok phrase.Token, opts Options, stop *StopSet) (*ParseResult, error) {
	opts.ConsumeAllText = false
	for ; tok != nil; tok = tok.Next() {
		if stop.Contains(tok.Span().From()) {
			continue
		}
		pr, err := p.Parse(tok, opts, stop)
		if err != nil {
			return nil, err
		}
		if pr.NumParses() > 0 {
			tracer().Debugf("found parse at %v", tok)
			return pr, nil
		}
	}
	return nil, nil
}

// SeekNextParse searches for a parse after the last token of a previous parse.
func (p *Parser) SeekNextParse(last *Parse, opts Options, stop *StopSet) (*ParseResult, error) {
	if last == nil {
		return nil, ErrNoInput
	}
	tok := last.LastToken()
	if tok == nil {
		return nil, nil
	}
	return p.SeekParse(tok.Next(), opts, stop)
}

// --- Seeking all parses ----------------------------------------------------

// Group is a set of parses starting at the same input position, as found by
// SeekAll. Parses are ordered by the length of their spans, longest first.
// Parses subsumed by other parses are not selected.
type Group struct {
	Result   *ParseResult
	Parses   []*Parse
	selected []bool
}

// IsSelected is true if parse #i of the group has been selected.
func (grp *Group) IsSelected(i int) bool {
	return i >= 0 && i < len(grp.selected) && grp.selected[i]
}

// Selected returns the selected parses of the group.
func (grp *Group) Selected() []*Parse {
	var sel []*Parse
	for i, parse := range grp.Parses {
		if grp.selected[i] {
			sel = append(sel, parse)
		}
	}
	return sel
}

// Span returns the span of the longest selected parse of the group.
func (grp *Group) Span() phrase.Span {
	for i, parse := range grp.Parses {
		if grp.selected[i] {
			return parse.Span()
		}
	}
	return phrase.Span{}
}

type acceptedSpan struct {
	span  phrase.Span
	group int
}

// SeekAll seeks through an input and collects every parse. Parses are grouped
// by their starting position. A parse is not selected if its span lies within
// the span of a parse selected before, or if it duplicates the tree of another
// parse. Parses of the same group with identical spans are ambiguous and do not
// subsume each other. Groups without any selected parse are dropped.
//
// ctx is checked between parse attempts. If it is done, SeekAll returns the
// groups found so far together with the context's error.
func (p *Parser) SeekAll(ctx context.Context, input phrase.Input, opts Options, stop *StopSet) ([]*Group, error) {
	var groups []*Group
	var accepted []acceptedSpan
	signatures := make(map[string]bool)
	tok := input.First()
	for tok != nil {
		if err := ctx.Err(); err != nil {
			return groups, err
		}
		pr, err := p.SeekParse(tok, opts, stop)
		if err != nil {
			return groups, err
		}
		if pr == nil {
			break
		}
		pr.GenerateParses(0)
		if err := pr.Err(); err != nil {
			return groups, err
		}
		grp := &Group{Result: pr, Parses: pr.Parses()}
		next := grp.Parses[0].LastToken().Next()
		sort.SliceStable(grp.Parses, func(i, j int) bool {
			return grp.Parses[i].Span().Len() > grp.Parses[j].Span().Len()
		})
		grp.selected = make([]bool, len(grp.Parses))
		n := len(groups)
		for i, parse := range grp.Parses {
			if subsumed(parse.Span(), accepted, n) {
				tracer().Debugf("parse %v is subsumed", parse)
				continue
			}
			if sig := parse.Signature(); sig != "" {
				if signatures[sig] {
					tracer().Debugf("parse %v is a duplicate", parse)
					continue
				}
				signatures[sig] = true
			}
			grp.selected[i] = true
			accepted = append(accepted, acceptedSpan{span: parse.Span(), group: n})
		}
		if len(grp.Selected()) > 0 {
			groups = append(groups, grp)
		}
		tok = next
	}
	tracer().Infof("found %d groups of parses", len(groups))
	return groups, nil
}

// subsumed is true if span lies within an accepted span of another group or
// strictly within an accepted span of the same group.
func subsumed(span phrase.Span, accepted []acceptedSpan, group int) bool {
	for _, a := range accepted {
		if a.group == group && a.span.StrictlyContains(span) {
			return true
		}
		if a.group != group && a.span.Contains(span) {
			return true
		}
	}
	return false
}
