package scanner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/phrase"
)

// --- Token chains ----------------------------------------------------------

// TokenChain is a chain of linked tokens for an input text. It implements
// interface phrase.Input.
type TokenChain struct {
	text   string
	tokens []*Token
}

var _ phrase.Input = (*TokenChain)(nil)

// ChainOption configures the construction of a token chain.
type ChainOption func(*chainConfig)

type chainConfig struct {
	revise func(Lexeme) []Lexeme
}

// Reviser sets a function which produces an alternate tokenization for a lexeme.
// If it returns more than one lexeme, the first one of them is linked as the
// revised token, the others follow it, and the last one is followed by the
// successor of the original token.
func Reviser(f func(Lexeme) []Lexeme) ChainOption {
	return func(c *chainConfig) {
		c.revise = f
	}
}

// SplitAt creates revisions for lexemes containing one of the given separator
// runes: the lexeme is split into pieces, with every separator being a piece on
// its own.
func SplitAt(separators string) ChainOption {
	return Reviser(func(l Lexeme) []Lexeme {
		if !strings.ContainsAny(l.text, separators) || len(l.text) <= 1 {
			return nil
		}
		var pieces []Lexeme
		start := 0
		for i, r := range l.text {
			if !strings.ContainsRune(separators, r) {
				continue
			}
			if i > start {
				pieces = append(pieces, piece(l, start, i, l.kind))
			}
			pieces = append(pieces, piece(l, i, i+len(string(r)), phrase.TokType(r)))
			start = i + len(string(r))
		}
		if start < len(l.text) {
			pieces = append(pieces, piece(l, start, len(l.text), l.kind))
		}
		return pieces
	})
}

func piece(l Lexeme, from, to int, kind phrase.TokType) Lexeme {
	pos := l.span.From()
	return Lexeme{
		kind: kind,
		text: l.text[from:to],
		span: phrase.Span{pos + uint64(from), pos + uint64(to)},
	}
}

// Chain reads all lexemes from a tokenizer and links them into a chain of tokens.
// The tokenizer has to read from input. Chain will return the first error a
// tokenizer reports.
func Chain(input string, tz Tokenizer, opts ...ChainOption) (*TokenChain, error) {
	conf := &chainConfig{}
	for _, opt := range opts {
		opt(conf)
	}
	var scanErr error
	tz.SetErrorHandler(func(e error) {
		tracer().Errorf("scanner error: %v", e)
		if scanErr == nil {
			scanErr = e
		}
	})
	chain := &TokenChain{text: input}
	var end uint64
	for lx := tz.NextToken(); !lx.IsEOF(); lx = tz.NextToken() {
		if lx.span.From() < end || lx.span.To() > uint64(len(input)) {
			return nil, fmt.Errorf("lexeme %q at %v out of order or out of input", lx.text, lx.span)
		}
		end = lx.span.To()
		chain.tokens = append(chain.tokens, chain.makeToken(lx))
	}
	if scanErr != nil {
		return nil, scanErr
	}
	for i, tok := range chain.tokens {
		if i+1 < len(chain.tokens) {
			tok.next = chain.tokens[i+1]
			tok.next.prevEnd = tok.span.To()
		}
		if conf.revise != nil {
			chain.revise(tok, conf.revise)
		}
	}
	tracer().Debugf("input of length %d split into %d tokens", len(input), len(chain.tokens))
	return chain, nil
}

func (chain *TokenChain) makeToken(lx Lexeme) *Token {
	return &Token{
		kind:  lx.kind,
		text:  lx.text,
		span:  lx.span,
		input: chain,
	}
}

func (chain *TokenChain) revise(tok *Token, revise func(Lexeme) []Lexeme) {
	pieces := revise(Lexeme{kind: tok.kind, text: tok.text, span: tok.span})
	if len(pieces) == 0 {
		return
	}
	if pieces[0].span.From() != tok.span.From() {
		tracer().Errorf("revision of %q does not start at token position, ignored", tok.text)
		return
	}
	var prev *Token
	for _, p := range pieces {
		t := chain.makeToken(p)
		t.revision = true
		if prev == nil {
			tok.revised = t
			t.prevEnd = tok.prevEnd
		} else {
			prev.next = t
			t.prevEnd = prev.span.To()
		}
		prev = t
	}
	prev.next = tok.next
}

// Text returns the complete input text. Part of interface phrase.Input.
func (chain *TokenChain) Text() string {
	return chain.text
}

// First returns the first token of the chain, or nil for an empty input.
// Part of interface phrase.Input.
func (chain *TokenChain) First() phrase.Token {
	if len(chain.tokens) == 0 {
		return nil
	}
	return chain.tokens[0]
}

// Len returns the number of tokens (not counting revisions).
func (chain *TokenChain) Len() int {
	return len(chain.tokens)
}

// At returns token #n, not counting revisions.
func (chain *TokenChain) At(n int) phrase.Token {
	if n < 0 || n >= len(chain.tokens) {
		return nil
	}
	return chain.tokens[n]
}

// --- Tokens ----------------------------------------------------------------

// Token is the token type of token chains. It implements interface phrase.Token.
type Token struct {
	kind     phrase.TokType
	text     string
	span     phrase.Span
	next     *Token
	revised  *Token
	revision bool   // token is part of an alternate tokenization
	prevEnd  uint64 // end position of the predecessor
	input    *TokenChain
	mx       sync.RWMutex
	features map[string]phrase.Feature
}

var _ phrase.Token = (*Token)(nil)

func (t *Token) TokType() phrase.TokType {
	return t.kind
}

func (t *Token) Lexeme() string {
	return t.text
}

func (t *Token) Span() phrase.Span {
	return t.span
}

// Next returns the successor of t, or nil at the end of input.
func (t *Token) Next() phrase.Token {
	if t.next == nil {
		return nil
	}
	return t.next
}

// Revised returns an alternate tokenization starting at the position of t, or nil.
func (t *Token) Revised() phrase.Token {
	if t.revised == nil {
		return nil
	}
	return t.revised
}

// IsRevision is true if t is part of an alternate tokenization.
func (t *Token) IsRevision() bool {
	return t.revision
}

// PreDelim returns the input text between the previous token and t.
func (t *Token) PreDelim() string {
	return t.input.text[t.prevEnd:t.span.From()]
}

// PostDelim returns the input text between t and the next token.
func (t *Token) PostDelim() string {
	if t.next != nil {
		return t.input.text[t.span.To():t.next.span.From()]
	}
	return t.input.text[t.span.To():]
}

// Feature returns a named feature of t.
func (t *Token) Feature(name string) (phrase.Feature, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	f, ok := t.features[name]
	return f, ok
}

// SetFeature attaches a named feature to t.
func (t *Token) SetFeature(name string, value interface{}, source string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if t.features == nil {
		t.features = make(map[string]phrase.Feature)
	}
	t.features[name] = phrase.Feature{Value: value, Source: source}
}

// Input returns the owning token chain.
func (t *Token) Input() phrase.Input {
	return t.input
}

func (t *Token) String() string {
	return fmt.Sprintf("%q%v", t.text, t.span)
}
