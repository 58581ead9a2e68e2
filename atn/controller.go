package atn

import (
	"fmt"

	"github.com/emirpasic/gods/lists/singlylinkedlist"
	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
	"github.com/npillmayer/schuko/gconf"
)

// ParseResult controls a parse attempt for a grammar, starting at a token.
// It holds the search tree of parser states and extends it lazily, as far as
// clients request parses.
//
// ParseResult is not safe for concurrent use. Parse views handed out by a
// ParseResult may be read concurrently, once the search is complete.
type ParseResult struct {
	*engine
	first      phrase.Token
	queue      *singlylinkedlist.List // handles of states awaiting evaluation
	startRules []*grammar.Rule
	nextStart  int // next start rule to try
	expansions int
	limit      int
	complete   bool
	found      int       // number of valid ends found so far
	ends       []StateID // cache of valid ends in tree order
	cached     bool
	views      map[StateID]*Parse
	err        error
}

func newParseResult(g *grammar.Grammar, first phrase.Token, opts Options, stop *StopSet) *ParseResult {
	pr := &ParseResult{
		engine:     newEngine(g, opts, stop),
		first:      first,
		queue:      singlylinkedlist.New(),
		startRules: g.StartRules(opts.StartRules...),
		limit:      opts.expansionLimit(),
		views:      make(map[StateID]*Parse),
	}
	return pr
}

func (pr *ParseResult) enqueue(s *State) {
	pr.queue.Add(pr.add(s))
}

// seed enqueues a state for the next start rule which is applicable to the
// first token. It returns false if there are no more start rules.
func (pr *ParseResult) seed() bool {
	for pr.nextStart < len(pr.startRules) {
		r := pr.startRules[pr.nextStart]
		pr.nextStart++
		tok := pr.visible(pr.g.AcceptToken(r, pr.first))
		if tok == nil {
			continue
		}
		tracer().Debugf("trying start rule %v", r)
		pr.enqueue(&State{
			parent: 0,
			token:  tok,
			rule:   r,
			push:   noState,
			frame:  noState,
			empty:  true,
			via:    viaStart,
		})
		return true
	}
	return false
}

// ContinueParsing extends the search until a new parse has been found. It
// returns false if the search is exhausted.
func (pr *ParseResult) ContinueParsing() bool {
	if pr.complete {
		return false
	}
	for {
		if pr.queue.Empty() && !pr.seed() {
			pr.finish()
			return false
		}
		v, _ := pr.queue.Get(0)
		pr.queue.Remove(0)
		if pr.expansions++; pr.expansions > pr.limit {
			tracer().Errorf("parse starting at %v exceeded %d state expansions", pr.first, pr.limit)
			if gconf.GetBool("atn-panic-on-limit") {
				panic(fmt.Sprintf("parser exceeded %d state expansions", pr.limit))
			}
			pr.err = ErrExpansionLimit
			pr.finish()
			return false
		}
		if pr.evaluate(v.(StateID), pr.enqueue) {
			pr.found++
			pr.cached = false
			if pr.opts.FirstParseOnly {
				pr.finish()
			}
			return true
		}
	}
}

func (pr *ParseResult) finish() {
	pr.queue.Clear()
	pr.nextStart = len(pr.startRules)
	pr.complete = true
	tracer().Debugf("parse complete after %d expansions, %d states, %d parses",
		pr.expansions, pr.size(), pr.found)
}

// GenerateParses continues parsing until at least n parses have been found
// or the search is exhausted. n = 0 will find all parses.
// It returns the number of parses found.
func (pr *ParseResult) GenerateParses(n int) int {
	for n == 0 || pr.found < n {
		if !pr.ContinueParsing() {
			break
		}
	}
	return pr.found
}

// IsComplete is true if the search is exhausted.
func (pr *ParseResult) IsComplete() bool {
	return pr.complete || (pr.queue.Empty() && pr.nextStart >= len(pr.startRules))
}

// Err returns an error if the search has been aborted.
func (pr *ParseResult) Err() error {
	return pr.err
}

// Grammar returns the grammar of the parse.
func (pr *ParseResult) Grammar() *grammar.Grammar {
	return pr.g
}

// FirstToken returns the token the parse started at.
func (pr *ParseResult) FirstToken() phrase.Token {
	return pr.first
}

// NumParses returns the number of parses found so far.
func (pr *ParseResult) NumParses() int {
	return len(pr.validEnds())
}

// Parse returns parse #i. Numbering of parses follows the order of the search
// tree and is valid only as long as the search is not continued.
func (pr *ParseResult) Parse(i int) *Parse {
	ends := pr.validEnds()
	if i < 0 || i >= len(ends) {
		return nil
	}
	return pr.view(ends[i])
}

// Parses returns all parses found so far.
func (pr *ParseResult) Parses() []*Parse {
	ends := pr.validEnds()
	parses := make([]*Parse, len(ends))
	for i, id := range ends {
		parses[i] = pr.view(id)
	}
	return parses
}

func (pr *ParseResult) view(id StateID) *Parse {
	if p, ok := pr.views[id]; ok {
		return p
	}
	p := &Parse{pr: pr, end: id}
	pr.views[id] = p
	return p
}

// validEnds collects the valid end states by a depth-first walk of the tree.
func (pr *ParseResult) validEnds() []StateID {
	if pr.cached {
		return pr.ends
	}
	pr.ends = pr.ends[:0]
	stack := []StateID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := pr.state(id)
		if s.valid {
			pr.ends = append(pr.ends, id)
		}
		for i := len(s.children) - 1; i >= 0; i-- {
			stack = append(stack, s.children[i])
		}
	}
	pr.cached = true
	return pr.ends
}

// Dump is a debugging helper, tracing the search tree.
func (pr *ParseResult) Dump() {
	tracer().Debugf("--- search tree from %v ----------", pr.first)
	type item struct {
		id    StateID
		depth int
	}
	stack := []item{{0, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := pr.state(it.id)
		tracer().Debugf("%*s%v", 2*it.depth, "", s)
		for i := len(s.children) - 1; i >= 0; i-- {
			stack = append(stack, item{s.children[i], it.depth + 1})
		}
	}
	tracer().Debugf("-------------------------")
}
