package atn

import (
	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
)

// engine performs state transitions. It evaluates a state, i.e. tries to match
// the state's token against its rule step, and derives successor states.
type engine struct {
	*arena
	g    *grammar.Grammar
	opts Options
	stop *StopSet
}

func newEngine(g *grammar.Grammar, opts Options, stop *StopSet) *engine {
	return &engine{
		arena: newArena(),
		g:     g,
		opts:  opts,
		stop:  stop,
	}
}

func (e *engine) context(id StateID) grammar.Context {
	return stateContext{a: e.arena, id: id}
}

// visible filters out tokens located at a position of the stop set.
func (e *engine) visible(tok phrase.Token) phrase.Token {
	if tok == nil || e.stop.Contains(tok.Span().From()) {
		return nil
	}
	return tok
}

// following returns the token after a matched state, as seen by its rule.
func (e *engine) following(s *State) phrase.Token {
	if !s.consumed {
		return e.visible(s.token)
	}
	return e.visible(e.g.NextToken(s.rule, s.token))
}

// evaluate matches a dequeued state, attaches it to the search tree and
// enqueues its successors. It returns true if the state is a valid end of
// a parse.
func (e *engine) evaluate(id StateID, enqueue func(*State)) bool {
	s := e.state(id)
	e.attach(id)
	s.matched, s.consumed = e.match(s)
	if s.matched && s.consumed {
		s.started = true
	}
	tracer().Debugf("%v", s)
	if s.matched {
		e.matchedSuccessors(id, enqueue)
		s.valid = e.isValidEnd(s)
		if s.valid {
			tracer().Debugf("%v is a valid end", s)
		}
		return s.valid
	}
	e.unmatchedSuccessors(id, enqueue)
	return false
}

// match decides whether the token of a state matches its step. The second
// return value tells if the match advances the input.
func (e *engine) match(s *State) (bool, bool) {
	tok := s.token
	if tok == nil {
		return false, false
	}
	step := s.rule.Step(s.step)
	ctx := e.context(s.id)
	consume := step.ConsumeToken
	if step.IgnoreToken {
		return step.Accepts(tok, ctx), consume
	}
	if cs := e.g.ClassifiersFor(step.Category); len(cs) > 0 {
		for _, c := range cs {
			if cc, ok := c.(grammar.ContextClassifier); ok {
				m := cc.ClassifyInContext(tok, ctx)
				if m.Matched && step.Accepts(tok, ctx) {
					return true, consume && !m.NoConsume
				}
				continue
			}
			if c.Classify(tok) && step.Accepts(tok, ctx) {
				return true, consume
			}
		}
		return false, false
	}
	if e.g.IsRuleCategory(step.Category) {
		return false, false
	}
	if tok.Lexeme() == step.Category {
		return step.Accepts(tok, ctx), consume
	}
	if _, ok := tok.Feature(step.Category); ok {
		return step.Accepts(tok, ctx), consume
	}
	return false, false
}

// matchedSuccessors enqueues the successors of a matched state: a repetition
// of the step, the next step, and, if the rule may end here, a return into the
// calling rule. Returns are resolved immediately and their successors derived
// in turn, for as many levels as the call stack permits.
func (e *engine) matchedSuccessors(id StateID, enqueue func(*State)) {
	for id != noState {
		s := e.state(id)
		step := s.rule.Step(s.step)
		next := e.following(s)
		if next != nil {
			if step.Repeats && next != e.origin(s) {
				enqueue(s.successor(viaRepeat, s.step, s.repeatNum+1, next))
			}
			if !s.rule.IsLastStep(s.step) {
				enqueue(s.successor(viaNextStep, s.step+1, 0, next))
			}
		}
		id = e.pop(id)
	}
}

// origin is the token at which the repetition of a step started.
func (e *engine) origin(s *State) phrase.Token {
	if s.popped {
		return e.state(s.frame).token
	}
	return s.token
}

// pop creates the state returning from a matched terminal step of a sub-rule
// into its caller. It returns noState if there is no caller or the caller
// does not accept the return.
func (e *engine) pop(id StateID) StateID {
	s := e.state(id)
	if !s.matched || s.push == noState || !s.rule.IsTerminalStep(s.step) {
		return noState
	}
	return e.popInto(s)
}

func (e *engine) popInto(s *State) StateID {
	caller := e.state(s.push)
	if !caller.rule.VerifyPop(s.token, e.context(caller.id), caller.category()) {
		return noState
	}
	p := &State{
		parent:    s.id,
		token:     s.token,
		rule:      caller.rule,
		step:      caller.step,
		repeatNum: caller.repeatNum,
		skipNum:   caller.skipNum,
		matched:   true,
		consumed:  s.consumed,
		started:   s.started,
		push:      caller.push,
		popped:    true,
		popCount:  1,
		frame:     caller.id,
		via:       viaPop,
	}
	pid := e.add(p)
	e.attach(pid)
	tracer().Debugf("%v", p)
	return pid
}

// unmatchedSuccessors enqueues the successors of a state which did not match.
// The first kind of successor yielding any candidate wins: a revised token,
// skipping an optional step, descending into sub-rules, or skipping a token.
func (e *engine) unmatchedSuccessors(id StateID, enqueue func(*State)) {
	s := e.state(id)
	if s.token == nil {
		return
	}
	if rev := e.visible(s.token.Revised()); rev != nil {
		r := s.successor(viaRevision, s.step, s.repeatNum, rev)
		r.skipNum, r.empty = s.skipNum, s.empty
		enqueue(r)
		return
	}
	step := s.rule.Step(s.step)
	if step.Optional && s.repeatNum == 0 {
		if !s.rule.IsLastStep(s.step) {
			n := s.successor(viaSkipOptional, s.step+1, 0, s.token)
			n.empty = s.empty
			enqueue(n)
			return
		}
		if s.empty && s.push != noState { // rule matches the empty phrase
			if p := e.popInto(s); p != noState {
				e.matchedSuccessors(p, enqueue)
				return
			}
		}
	}
	if e.g.IsRuleCategory(step.Category) && !e.recurses(s) {
		pushed := false
		for _, r := range e.g.RulesFor(step.Category) {
			tok := e.visible(e.g.AcceptToken(r, s.token))
			if tok == nil {
				continue
			}
			enqueue(&State{
				parent:  id,
				token:   tok,
				rule:    r,
				push:    id,
				frame:   noState,
				started: s.started,
				empty:   true,
				via:     viaPush,
			})
			pushed = true
		}
		if pushed {
			return
		}
	}
	if s.started && s.skipNum+1 <= e.opts.SkipTokenLimit {
		if next := e.visible(e.g.NextToken(s.rule, s.token)); next != nil {
			k := s.successor(viaSkipToken, s.step, s.repeatNum, next)
			k.skipNum, k.empty = s.skipNum+1, s.empty
			enqueue(k)
		}
	}
}

// recurses is true if pushing sub-rules for s would not make any progress.
// Every caller up the call stack of s at the same step and token marks a
// level of left recursion. Each of these levels has to consume at least one
// more token after returning, so their count is bounded by the tokens left.
func (e *engine) recurses(s *State) bool {
	levels := 0
	for f := s.push; f != noState; f = e.state(f).push {
		frame := e.state(f)
		if frame.rule == s.rule && frame.step == s.step && frame.token == s.token {
			levels++
		}
	}
	if levels == 0 {
		return false
	}
	left := 0
	for tok := s.token; tok != nil && left <= levels; tok = e.visible(e.g.NextToken(s.rule, tok)) {
		left++
	}
	if levels < left {
		return false
	}
	tracer().Debugf("suppress recursive push of %s at %q", s.category(), s.token.Lexeme())
	return true
}

// isValidEnd checks if a matched state completes a parse: its rule and every
// rule on the call stack have to be at a terminal step and accept the return.
func (e *engine) isValidEnd(s *State) bool {
	if s.popped || !s.matched || !s.rule.IsTerminalStep(s.step) {
		return false
	}
	for f := s.push; f != noState; f = e.state(f).push {
		frame := e.state(f)
		if !frame.rule.IsTerminalStep(frame.step) {
			return false
		}
		if !frame.rule.VerifyPop(s.token, e.context(f), frame.category()) {
			return false
		}
	}
	if e.opts.ConsumeAllText {
		next := s.token
		if s.consumed {
			next = e.g.NextToken(s.rule, s.token)
		}
		if next != nil {
			return false
		}
	}
	return true
}
