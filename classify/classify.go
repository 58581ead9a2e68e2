package classify

import (
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/grammar"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// --- Term lists ------------------------------------------------------------

// TermClassifier accepts tokens whose text is contained in a list of terms.
type TermClassifier struct {
	category string
	terms    *hashset.Set
	fold     bool
}

var _ grammar.Classifier = (*TermClassifier)(nil)

// Terms creates a classifier for a category, accepting a fixed list of words.
func Terms(category string, words ...string) *TermClassifier {
	tc := &TermClassifier{
		category: category,
		terms:    hashset.New(),
	}
	for _, w := range words {
		tc.terms.Add(w)
	}
	return tc
}

// IgnoreCase lets the classifier compare tokens case-insensitively.
func (tc *TermClassifier) IgnoreCase() *TermClassifier {
	folded := hashset.New()
	for _, w := range tc.terms.Values() {
		folded.Add(strings.ToLower(w.(string)))
	}
	tc.terms, tc.fold = folded, true
	return tc
}

// Classify is part of interface grammar.Classifier.
func (tc *TermClassifier) Classify(tok phrase.Token) bool {
	text := tok.Lexeme()
	if tc.fold {
		text = strings.ToLower(text)
	}
	if !tc.terms.Contains(text) {
		return false
	}
	tok.SetFeature(tc.category, text, "terms")
	return true
}

// Size returns the number of terms.
func (tc *TermClassifier) Size() int {
	return tc.terms.Size()
}

// --- Token types -----------------------------------------------------------

// TypeClassifier accepts tokens of given token types, as assigned by a scanner.
type TypeClassifier struct {
	types []phrase.TokType
}

var _ grammar.Classifier = TypeClassifier{}

// Types creates a classifier accepting tokens of the given types.
func Types(tokTypes ...phrase.TokType) TypeClassifier {
	return TypeClassifier{types: tokTypes}
}

// Classify is part of interface grammar.Classifier.
func (tc TypeClassifier) Classify(tok phrase.Token) bool {
	for _, t := range tc.types {
		if tok.TokType() == t {
			return true
		}
	}
	return false
}

// --- Features --------------------------------------------------------------

// HasFeature creates a classifier accepting tokens which carry a named feature.
func HasFeature(name string) grammar.Classifier {
	return grammar.ClassifierFunc(func(tok phrase.Token) bool {
		_, ok := tok.Feature(name)
		return ok
	})
}

// --- Regular expressions ---------------------------------------------------

// PatternClassifier accepts tokens whose complete text matches a regular
// expression. Patterns use the syntax of lexmachine and are compiled to a DFA.
type PatternClassifier struct {
	category string
	pattern  string
	lexer    *lexmachine.Lexer
}

var _ grammar.Classifier = (*PatternClassifier)(nil)

// Pattern creates a classifier for a category from a regular expression.
// It returns an error if the expression cannot be compiled.
func Pattern(category, regex string) (*PatternClassifier, error) {
	pc := &PatternClassifier{
		category: category,
		pattern:  regex,
		lexer:    lexmachine.NewLexer(),
	}
	pc.lexer.Add([]byte(regex), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, string(m.Bytes), m), nil
	})
	if err := pc.lexer.Compile(); err != nil {
		tracer().Errorf("cannot compile pattern %q for %s: %v", regex, category, err)
		return nil, err
	}
	return pc, nil
}

// Classify is part of interface grammar.Classifier.
func (pc *PatternClassifier) Classify(tok phrase.Token) bool {
	text := tok.Lexeme()
	if text == "" {
		return false
	}
	s, err := pc.lexer.Scanner([]byte(text))
	if err != nil {
		return false
	}
	m, err, eof := s.Next()
	if err != nil || eof {
		return false
	}
	lt := m.(*lexmachine.Token)
	if lt.TC != 0 || len(lt.Lexeme) != len(text) {
		return false
	}
	tracer().Debugf("%q matches pattern %s", text, pc.pattern)
	tok.SetFeature(pc.category, text, "pattern")
	return true
}

// --- Lookahead -------------------------------------------------------------

// PeekClassifier wraps a classifier and hints the parser not to consume a
// matched token. Steps using it work as a lookahead.
type PeekClassifier struct {
	grammar.Classifier
}

var _ grammar.ContextClassifier = PeekClassifier{}

// Peek wraps a classifier into a lookahead classifier.
func Peek(c grammar.Classifier) PeekClassifier {
	return PeekClassifier{Classifier: c}
}

// ClassifyInContext is part of interface grammar.ContextClassifier.
func (pc PeekClassifier) ClassifyInContext(tok phrase.Token, ctx grammar.Context) grammar.MatchResult {
	return grammar.MatchResult{
		Matched:   pc.Classify(tok),
		NoConsume: true,
	}
}
