package lexmach

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/phrase"
	"github.com/npillmayer/phrase/scanner"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Pattern defines a class of lexemes by a regular expression in lexmachine
// syntax. Matches of a pattern flagged with Skip do not produce tokens; use
// this for whitespace and comments.
type Pattern struct {
	Regex string
	Type  phrase.TokType
	Skip  bool
}

// Lexer holds a compiled DFA for a set of patterns and literals. A lexer may
// be shared and creates a tokenizer per input text.
type Lexer struct {
	lexer    *lexmachine.Lexer
	patterns int
}

// NewLexer compiles patterns and literals into a lexer. Patterns are tried in
// order of appearance, with literals following them. A literal ("-", ":=", …)
// is matched verbatim and typed by its first rune, as scanner.Words does for
// punctuation.
//
// NewLexer returns an error if a regular expression is malformed or the DFA
// cannot be compiled.
func NewLexer(patterns []Pattern, literals ...string) (*Lexer, error) {
	if len(patterns) == 0 && len(literals) == 0 {
		return nil, errors.New("lexmach: no patterns to compile")
	}
	lx := &Lexer{lexer: lexmachine.NewLexer(), patterns: len(patterns) + len(literals)}
	for _, p := range patterns {
		if p.Skip {
			lx.lexer.Add([]byte(p.Regex), skip)
			continue
		}
		lx.lexer.Add([]byte(p.Regex), emit(p.Type))
	}
	for _, lit := range literals {
		if lit == "" {
			return nil, errors.New("lexmach: empty literal")
		}
		r, _ := utf8.DecodeRuneInString(lit)
		lx.lexer.Add([]byte(quote(lit)), emit(phrase.TokType(r)))
	}
	if err := lx.lexer.Compile(); err != nil {
		tracer().Errorf("cannot compile DFA for %d patterns: %v", lx.patterns, err)
		return nil, fmt.Errorf("lexmach: %w", err)
	}
	return lx, nil
}

// quote escapes every rune of a literal which is not a letter or digit.
func quote(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(typ phrase.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}

// Tokenizer creates a tokenizer for an input text.
func (lx *Lexer) Tokenizer(input string) (*Tokenizer, error) {
	s, err := lx.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, fmt.Errorf("lexmach: cannot scan input: %w", err)
	}
	return &Tokenizer{scanner: s, length: uint64(len(input)), Error: logError}, nil
}

// Chain tokenizes an input text and links the tokens into a token chain.
func (lx *Lexer) Chain(input string, opts ...scanner.ChainOption) (*scanner.TokenChain, error) {
	tz, err := lx.Tokenizer(input)
	if err != nil {
		return nil, err
	}
	return scanner.Chain(input, tz, opts...)
}

// --- Tokenizer -------------------------------------------------------------

// Tokenizer produces lexemes for scanner.Chain from a lexmachine scanner.
type Tokenizer struct {
	scanner *lexmachine.Scanner
	length  uint64 // length of input in bytes
	Error   func(error)
}

var _ scanner.Tokenizer = (*Tokenizer)(nil)

// SetErrorHandler sets an error handler for the tokenizer. scanner.Chain
// installs its own handler and fails on the first error reported.
func (tz *Tokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		tz.Error = logError
		return
	}
	tz.Error = h
}

func logError(e error) {
	tracer().Errorf("lexmach: %v", e)
}

// UnmatchedInputError reports input text which no pattern matches.
type UnmatchedInputError struct {
	Pos  uint64 // byte offset of the unmatched text
	Text string
}

func (e *UnmatchedInputError) Error() string {
	return fmt.Sprintf("no pattern matches %q at position %d", e.Text, e.Pos)
}

// NextToken is part of the scanner.Tokenizer interface. Input text which
// no pattern matches is reported to the error handler and passed over.
func (tz *Tokenizer) NextToken() scanner.Lexeme {
	if tz.scanner == nil {
		return scanner.MakeLexeme(scanner.EOF, "", phrase.Span{})
	}
	tok, err, eof := tz.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			tz.Error(unmatched(ui))
			tz.scanner.TC = resume(ui)
		} else {
			tz.Error(err)
		}
		tok, err, eof = tz.scanner.Next()
	}
	if eof {
		return scanner.MakeLexeme(scanner.EOF, "", phrase.Span{tz.length, tz.length})
	}
	token := tok.(*lexmachine.Token)
	start := uint64(token.TC)
	tracer().Debugf("lexeme %q of type %d at %d", token.Lexeme, token.Type, start)
	return scanner.MakeLexeme(
		phrase.TokType(token.Type),
		string(token.Lexeme),
		phrase.Span{start, start + uint64(len(token.Lexeme))},
	)
}

// resume is the position after unmatched input. Scanning continues there.
func resume(ui *machines.UnconsumedInput) int {
	if ui.FailTC > ui.StartTC {
		return ui.FailTC
	}
	return ui.StartTC + 1
}

func unmatched(ui *machines.UnconsumedInput) error {
	from, to := ui.StartTC, resume(ui)
	if from < 0 || to > len(ui.Text) {
		return ui
	}
	return &UnmatchedInputError{Pos: uint64(from), Text: string(ui.Text[from:to])}
}
