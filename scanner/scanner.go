/*
Package scanner produces input tokens for the ATN parser.

Scanning happens in two stages. First, a Tokenizer splits the input text into
raw lexemes. Two tokenizers are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) a word tokenizer, grouping runes by category. A third
one, an adapter for lexmachine, lives in sub-package `lexmach`.

Second, the lexemes are linked into a token chain. Tokens of a chain know their
delimiters, may carry features, and may offer alternate tokenizations
(revisions) for the same input position.

    input := "the dog-house"
    chain, err := scanner.Chain(input, scanner.Words(input), scanner.SplitAt("-"))
    tok := chain.First()      // "the"
    tok = tok.Next()          // "dog-house"
    rev := tok.Revised()      // "dog", followed by "-" and "house"

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"io"
	"text/scanner"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'phrase.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("phrase.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface, producing raw lexemes. At the end of input
// a tokenizer returns a lexeme of type EOF.
type Tokenizer interface {
	NextToken() Lexeme
	SetErrorHandler(func(error))
}

// --- Lexemes ---------------------------------------------------------------

// Lexeme is a very unsophisticated raw token type, produced by tokenizers.
type Lexeme struct {
	kind phrase.TokType
	text string
	span phrase.Span
}

// MakeLexeme creates a raw lexeme.
func MakeLexeme(typ phrase.TokType, text string, span phrase.Span) Lexeme {
	return Lexeme{
		kind: typ,
		text: text,
		span: span,
	}
}

func (l Lexeme) TokType() phrase.TokType {
	return l.kind
}

func (l Lexeme) Text() string {
	return l.text
}

func (l Lexeme) Span() phrase.Span {
	return l.span
}

// IsEOF is true for the lexeme signalling the end of input.
func (l Lexeme) IsEOF() bool {
	return l.kind == EOF
}

func eof(pos uint64) Lexeme {
	return Lexeme{kind: EOF, span: phrase.Span{pos, pos}}
}

// --- Default tokenizer -----------------------------------------------------

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(scanError{pos: s.Position, msg: msg})
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() Lexeme {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		return eof(uint64(t.Pos().Offset))
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return Lexeme{
		kind: phrase.TokType(t.lastToken),
		text: t.TokenText(),
		span: phrase.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

type scanError struct {
	pos scanner.Position
	msg string
}

func (e scanError) Error() string {
	return e.pos.String() + ": " + e.msg
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments set or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}
