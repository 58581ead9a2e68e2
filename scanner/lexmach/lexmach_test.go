package lexmach

import (
	"errors"
	"testing"

	"github.com/npillmayer/phrase/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 2, 3, 3}

var literals = []string{"'", "(", ")", "[", "]", "=", "+", "-", "*", "/"}

func makeLexer(t *testing.T) *Lexer {
	lx, err := NewLexer([]Pattern{
		{Regex: `//[^\n]*\n?`, Skip: true},
		{Regex: `\"[^"]*\"`, Type: scanner.String},
		{Regex: `#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`, Type: scanner.Ident},
		{Regex: `[1-9][0-9]*`, Type: scanner.Int},
		{Regex: `( |\,|\t|\n|\r)+`, Skip: true},
	}, literals...)
	if err != nil {
		t.Fatal(err)
	}
	return lx
}

func TestLexer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	lx := makeLexer(t)
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		tz, err := lx.Tokenizer(input)
		if err != nil {
			t.Fatal(err)
		}
		token := tz.NextToken()
		count := 0
		for !token.IsEOF() {
			t.Logf(" %4d | %15s | %v", token.TokType(), token.Text(), token.Span())
			if input[token.Span().From():token.Span().To()] != token.Text() {
				t.Errorf("span %v does not cover lexeme %q", token.Span(), token.Text())
			}
			token = tz.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
		if token.Span().From() != uint64(len(input)) {
			t.Errorf("expected end of input at %d, have %v", len(input), token.Span())
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestLexerChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	lx := makeLexer(t)
	chain, err := lx.Chain("x = 1+12")
	if err != nil {
		t.Fatal(err)
	}
	if chain.Len() != 5 {
		t.Fatalf("expected 5 tokens, have %d", chain.Len())
	}
	if plus := chain.At(3); plus.Lexeme() != "+" || plus.TokType() != '+' || plus.PreDelim() != "" {
		t.Errorf("expected '+' glued to '1', have %q with pre-delimiter %q", plus.Lexeme(), plus.PreDelim())
	}
	if eq := chain.At(1); eq.PreDelim() != " " || eq.PostDelim() != " " {
		t.Errorf("expected '=' to be surrounded by blanks")
	}
	if num := chain.At(4); num.TokType() != scanner.Int {
		t.Errorf("expected '12' to be a number, is of type %d", num.TokType())
	}
}

func TestLexerUnmatchedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	lx := makeLexer(t)
	_, err := lx.Chain("x = 1 % 2")
	var unmatched *UnmatchedInputError
	if !errors.As(err, &unmatched) {
		t.Fatalf("expected an unmatched input error, have %v", err)
	}
	if unmatched.Pos != 6 {
		t.Errorf("expected unmatched input at position 6, have %d", unmatched.Pos)
	}
	var reported []error
	tz, err := lx.Tokenizer("1 % 2")
	if err != nil {
		t.Fatal(err)
	}
	tz.SetErrorHandler(func(e error) { reported = append(reported, e) })
	count := 0
	for tok := tz.NextToken(); !tok.IsEOF(); tok = tz.NextToken() {
		count++
	}
	if count != 2 || len(reported) != 1 {
		t.Errorf("expected 2 numbers and 1 error, have %d and %d", count, len(reported))
	}
}

func TestLexerWithoutPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "phrase.scanner")
	defer teardown()
	//
	if _, err := NewLexer(nil); err == nil {
		t.Errorf("expected lexer without patterns to be rejected")
	}
	if _, err := NewLexer(nil, "+", ""); err == nil {
		t.Errorf("expected empty literal to be rejected")
	}
}
