package grammar

import (
	"github.com/npillmayer/phrase"
)

// --- Classifiers -----------------------------------------------------------

// Classifier decides whether a token belongs to a category. Classifiers are
// registered for categories with Builder.Classify. A classifier may attach
// features to the token as a side effect of a positive match.
type Classifier interface {
	Classify(tok phrase.Token) bool
}

// ContextClassifier is a Classifier which is able to take the parse state into
// account. The engine prefers ClassifyInContext over Classify, if present.
type ContextClassifier interface {
	Classifier
	ClassifyInContext(tok phrase.Token, ctx Context) MatchResult
}

// MatchResult is the outcome of a context-sensitive classification.
// NoConsume is a hint to the parser not to advance the input after the match.
type MatchResult struct {
	Matched   bool
	NoConsume bool
}

// ClassifierFunc is an adapter to use ordinary functions as classifiers.
type ClassifierFunc func(phrase.Token) bool

// Classify is part of interface Classifier.
func (f ClassifierFunc) Classify(tok phrase.Token) bool {
	return f(tok)
}

// --- Rule step tests -------------------------------------------------------

// Verdict is the tri-state outcome of a rule step test.
type Verdict int8

// A test either accepts a token, rejects it, or has no opinion.
const (
	NotApplicable Verdict = iota
	Pass
	Fail
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	}
	return "n/a"
}

// StepTest is a pluggable predicate attached to a rule step.
type StepTest interface {
	Accept(tok phrase.Token, ctx Context) Verdict
}

// TestFunc is an adapter to use ordinary functions as step tests.
type TestFunc func(phrase.Token, Context) Verdict

// Accept is part of interface StepTest.
func (f TestFunc) Accept(tok phrase.Token, ctx Context) Verdict {
	return f(tok, ctx)
}

// Combine evaluates tests as an AND-pipeline. A single Fail fails the
// pipeline, NotApplicable does not block. A pipeline consisting of
// NotApplicable verdicts only (or of no tests at all) passes.
func Combine(tok phrase.Token, ctx Context, tests ...StepTest) Verdict {
	for _, t := range tests {
		if t == nil {
			continue
		}
		if t.Accept(tok, ctx) == Fail {
			return Fail
		}
	}
	return Pass
}

// --- Parse context ---------------------------------------------------------

// Context is a read-only view of a parser state, handed to step tests and
// context classifiers.
type Context interface {
	Rule() *Rule
	StepIndex() int
	RepeatCount() int
	SkipCount() int
	Token() phrase.Token
	Caller() Context // the context which pushed into the current rule, or nil
}

// --- Token filters ---------------------------------------------------------

// TokenFilter selects the tokens a rule is interested in. Tokens rejected by a
// rule's filter are passed over by the parser while inside this rule.
type TokenFilter interface {
	Accept(tok phrase.Token) bool
}

// FilterFunc is an adapter to use ordinary functions as token filters.
type FilterFunc func(phrase.Token) bool

// Accept is part of interface TokenFilter.
func (f FilterFunc) Accept(tok phrase.Token) bool {
	return f(tok)
}
