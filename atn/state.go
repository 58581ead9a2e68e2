package atn

import (
	"fmt"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
)

// StateID is a handle for a parser state. States live in an arena owned by
// a parse result; handles are valid for this parse result only.
type StateID int

const noState StateID = -1

// how a state came into existence
type generation int8

const (
	viaStart generation = iota
	viaRepeat
	viaNextStep
	viaPop
	viaRevision
	viaSkipOptional
	viaPush
	viaSkipToken
)

func (g generation) String() string {
	switch g {
	case viaStart:
		return "start"
	case viaRepeat:
		return "repeat"
	case viaNextStep:
		return "next"
	case viaPop:
		return "pop"
	case viaRevision:
		return "revision"
	case viaSkipOptional:
		return "skip-opt"
	case viaPush:
		return "push"
	case viaSkipToken:
		return "skip-tok"
	}
	return "?"
}

// State is a node in the search tree of the parser. It captures a token and a
// program counter, i.e. a rule and the index of a step within this rule.
type State struct {
	id        StateID
	parent    StateID
	children  []StateID
	token     phrase.Token
	rule      *grammar.Rule
	step      int
	repeatNum int
	skipNum   int
	matched   bool
	consumed  bool    // the match advanced the input
	started   bool    // some token has been consumed on the path to this state
	empty     bool    // the current rule invocation has not matched anything yet
	push      StateID // caller state for rules pushed by another rule
	popped    bool
	popCount  int
	frame     StateID // for popped states: the caller state they resume
	via       generation
	valid     bool // valid end of a parse
}

// ID returns the handle of a state.
func (s *State) ID() StateID {
	return s.id
}

// Rule returns the rule of a state. The root state does not have a rule.
func (s *State) Rule() *grammar.Rule {
	return s.rule
}

// StepIndex returns the index of the current step within the state's rule.
func (s *State) StepIndex() int {
	return s.step
}

// Token returns the token the state tries to match.
func (s *State) Token() phrase.Token {
	return s.token
}

// Matched is true if the token matched the step of the state.
func (s *State) Matched() bool {
	return s.matched
}

func (s *State) category() string {
	if s.rule == nil {
		return ""
	}
	return s.rule.Step(s.step).Category
}

func (s *State) String() string {
	if s.rule == nil {
		return fmt.Sprintf("[%d] root", s.id)
	}
	tok := "<none>"
	if s.token != nil {
		tok = fmt.Sprintf("%q", s.token.Lexeme())
	}
	flags := ""
	if s.matched {
		flags += " matched"
	}
	if s.popped {
		flags += fmt.Sprintf(" popped(%d)", s.popCount)
	}
	if s.valid {
		flags += " END"
	}
	return fmt.Sprintf("[%d] %s•%d %s r%d s%d (%s, push %d)%s", s.id, s.rule.Name, s.step,
		tok, s.repeatNum, s.skipNum, s.via, s.push, flags)
}

// --- State arena -----------------------------------------------------------

// arena holds all states of a parse. State 0 is a synthetic root.
type arena struct {
	states []*State
}

func newArena() *arena {
	root := &State{id: 0, parent: noState, push: noState, frame: noState}
	return &arena{states: []*State{root}}
}

func (a *arena) state(id StateID) *State {
	return a.states[id]
}

func (a *arena) size() int {
	return len(a.states)
}

// add registers a new state, not yet attached to its parent.
func (a *arena) add(s *State) StateID {
	s.id = StateID(len(a.states))
	a.states = append(a.states, s)
	return s.id
}

// attach links a state to its parent within the search tree.
func (a *arena) attach(id StateID) {
	s := a.states[id]
	if s.parent != noState {
		p := a.states[s.parent]
		p.children = append(p.children, id)
	}
}

// successor creates a state derived from s, sharing its rule and call frame.
func (s *State) successor(via generation, step, repeat int, tok phrase.Token) *State {
	return &State{
		parent:    s.id,
		token:     tok,
		rule:      s.rule,
		step:      step,
		repeatNum: repeat,
		push:      s.push,
		frame:     noState,
		started:   s.started,
		via:       via,
	}
}

// --- Parse context ---------------------------------------------------------

// stateContext is the view of a state handed to step tests and classifiers.
type stateContext struct {
	a  *arena
	id StateID
}

var _ grammar.Context = stateContext{}

func (c stateContext) Rule() *grammar.Rule {
	return c.a.states[c.id].rule
}

func (c stateContext) StepIndex() int {
	return c.a.states[c.id].step
}

func (c stateContext) RepeatCount() int {
	return c.a.states[c.id].repeatNum
}

func (c stateContext) SkipCount() int {
	return c.a.states[c.id].skipNum
}

func (c stateContext) Token() phrase.Token {
	return c.a.states[c.id].token
}

func (c stateContext) Caller() grammar.Context {
	push := c.a.states[c.id].push
	if push == noState {
		return nil
	}
	return stateContext{a: c.a, id: push}
}
