package phrase

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a lexical category type for a Token, as assigned by a scanner.
// We do not define any constants here, as it is up to scanners to define them.
// Grammar categories are a different thing: they are strings and are assigned
// during parsing.
type TokType int

// Token represents an input token. Tokens are linked: every token knows its
// successor and, optionally, an alternate tokenization starting at the same
// position in the input text.
//
// An example would be a token for the word "dog-house":
//
//    Lexeme    = "dog-house"
//    Span      = 14…23       // occured from position 14 in the input text
//    PreDelim  = " "         // text between the previous token and this one
//    Revised() = "dog"       // alternate tokenization, followed by "-" and "house"
//
// Features are named values attached to a token, either by the scanner or by
// classifiers during parsing. As classifiers may attach features while a
// parse is running, implementations have to guard features against concurrent
// access.
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
	PreDelim() string
	PostDelim() string
	Next() Token
	Revised() Token
	Feature(name string) (Feature, bool)
	SetFeature(name string, value interface{}, source string)
	Input() Input
}

// Input is the owning tokenizer of a chain of tokens. It grants access to the
// complete input text.
type Input interface {
	Text() string
	First() Token
}

// Feature is a named value attached to a token.
type Feature struct {
	Value  interface{} // user defined value
	Source string      // who attached this feature
}

func (f Feature) String() string {
	return fmt.Sprintf("%v[%s]", f.Value, f.Source)
}

// TextOf returns the input text covered by span.
func TextOf(input Input, span Span) string {
	if input == nil {
		return ""
	}
	text := input.Text()
	if span.From() > uint64(len(text)) || span.To() > uint64(len(text)) || span.From() > span.To() {
		return ""
	}
	return text[span.From():span.To()]
}

// PriorText returns the input text before token tok.
func PriorText(tok Token) string {
	if tok == nil || tok.Input() == nil {
		return ""
	}
	return TextOf(tok.Input(), Span{0, tok.Span().From()})
}

// NextText returns the input text after token tok.
func NextText(tok Token) string {
	if tok == nil || tok.Input() == nil {
		return ""
	}
	return TextOf(tok.Input(), Span{tok.Span().To(), uint64(len(tok.Input().Text()))})
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input text. For every
// token and every parse we track which input positions it covers.
// A span denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// Contains is true if other lies completely within s.
func (s Span) Contains(other Span) bool {
	return s[0] <= other[0] && other[1] <= s[1]
}

// StrictlyContains is true if other lies within s and is shorter than s.
func (s Span) StrictlyContains(other Span) bool {
	return s.Contains(other) && s != other
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
