package scanner

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/phrase"
)

// --- Category codes --------------------------------------------------------

// CatCode is a category code for runes. Sequences of runes with identical
// category codes form a lexeme.
type CatCode int16

// Category codes of the default word categorizer.
const (
	IllegalCatCode CatCode = iota
	LetterCat
	DigitCat
	SpaceCat
	PunctCat
)

// RuneCategorizer assigns category codes to runes. Loners are runes which are
// not allowed to form sequences with other runes of the same category.
type RuneCategorizer interface {
	Cat(r rune) (cat CatCode, isLoner bool)
}

// CatSeq is a sequence of runes of the same category.
type CatSeq struct {
	Cat    CatCode // catcode of all runes in this sequence
	Length int     // length of sequence in terms of runes
}

// --- Category sequence reader ----------------------------------------------

// CatSeqReader reads sequences of runes of equal category from a rune reader.
type CatSeqReader struct {
	isEOF      bool
	next       rune
	hasNext    bool
	start, end uint64 // as bytes index
	reader     io.RuneReader
	writer     strings.Builder
}

// NewCatSeqReader creates a category sequence reader on a rune reader.
func NewCatSeqReader(r io.RuneReader) *CatSeqReader {
	return &CatSeqReader{
		reader: r,
	}
}

// Next reads the next sequence of runes with equal category.
func (rs *CatSeqReader) Next(rc RuneCategorizer) (csq CatSeq, err error) {
	rs.resetOutput()
	var r rune
	r, err = rs.lookahead()
	if err == io.EOF {
		return csq, io.EOF
	} else if err != nil {
		return csq, fmt.Errorf("scanner cannot read sequence (%w)", err)
	}
	var isLoner bool
	csq.Cat, isLoner = rc.Cat(r)
	rs.match(r)
	csq.Length = 1
	if isLoner { // rune category is not allowed to form sequences
		return csq, nil
	}
	for {
		r, err = rs.lookahead()
		if err == io.EOF {
			return csq, nil
		} else if err != nil {
			return csq, fmt.Errorf("scanner cannot read sequence (%w)", err)
		}
		if cc, loner := rc.Cat(r); cc != csq.Cat || loner {
			return csq, nil
		}
		rs.match(r)
		csq.Length++
	}
}

// OutputString returns the text of the most recent sequence.
func (rs *CatSeqReader) OutputString() string {
	return rs.writer.String()
}

// Span returns the byte positions of the most recent sequence.
func (rs *CatSeqReader) Span() phrase.Span {
	return phrase.Span{rs.start, rs.end}
}

func (rs *CatSeqReader) resetOutput() {
	rs.writer.Reset()
	rs.start = rs.end
}

func (rs *CatSeqReader) lookahead() (r rune, err error) {
	if rs.isEOF {
		return utf8.RuneError, io.EOF
	}
	if rs.hasNext {
		return rs.next, nil
	}
	r, _, err = rs.reader.ReadRune()
	if err == io.EOF {
		rs.isEOF = true
		return utf8.RuneError, io.EOF
	} else if err != nil {
		return 0, err
	}
	rs.next, rs.hasNext = r, true
	return r, nil
}

func (rs *CatSeqReader) match(r rune) {
	rs.writer.WriteRune(r)
	rs.end += uint64(utf8.RuneLen(r))
	rs.hasNext = false
}

// --- Word tokenizer --------------------------------------------------------

// WordCategorizer is the default rune categorizer for natural language text.
// Letters, together with in-word punctuation (hyphens, apostrophes), form words,
// digits form numbers, and every other punctuation character is a loner.
type WordCategorizer struct {
	InWord string // punctuation treated as part of words
}

// Cat is part of interface RuneCategorizer.
func (wc WordCategorizer) Cat(r rune) (CatCode, bool) {
	switch {
	case unicode.IsLetter(r) || strings.ContainsRune(wc.InWord, r):
		return LetterCat, false
	case unicode.IsDigit(r):
		return DigitCat, false
	case unicode.IsSpace(r):
		return SpaceCat, false
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return PunctCat, true
	}
	return IllegalCatCode, true
}

// WordTokenizer splits text into words, numbers and punctuation, dropping
// whitespace. Words are of token type Ident, numbers of type Int, punctuation
// tokens have their rune as token type.
type WordTokenizer struct {
	csr   *CatSeqReader
	cat   RuneCategorizer
	Error func(error)
}

var _ Tokenizer = (*WordTokenizer)(nil)

// Words creates a word tokenizer for an input text, treating hyphens and
// apostrophes as part of words.
func Words(input string) *WordTokenizer {
	return NewWordTokenizer(strings.NewReader(input), WordCategorizer{InWord: "-'"})
}

// NewWordTokenizer creates a word tokenizer with a custom rune categorizer.
func NewWordTokenizer(r io.RuneReader, cat RuneCategorizer) *WordTokenizer {
	return &WordTokenizer{
		csr:   NewCatSeqReader(r),
		cat:   cat,
		Error: logError,
	}
}

// SetErrorHandler sets an error handler for the scanner.
func (wt *WordTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		wt.Error = logError
		return
	}
	wt.Error = h
}

// NextToken is part of the Tokenizer interface.
func (wt *WordTokenizer) NextToken() Lexeme {
	for {
		csq, err := wt.csr.Next(wt.cat)
		if err == io.EOF {
			return eof(wt.csr.Span().To())
		} else if err != nil {
			wt.Error(err)
			return eof(wt.csr.Span().To())
		}
		text := wt.csr.OutputString()
		switch csq.Cat {
		case SpaceCat:
			continue
		case LetterCat:
			return Lexeme{kind: Ident, text: text, span: wt.csr.Span()}
		case DigitCat:
			return Lexeme{kind: Int, text: text, span: wt.csr.Span()}
		case IllegalCatCode:
			wt.Error(fmt.Errorf("illegal character %q at position %d", text, wt.csr.Span().From()))
			continue
		}
		r, _ := utf8.DecodeRuneInString(text)
		return Lexeme{kind: phrase.TokType(r), text: text, span: wt.csr.Span()}
	}
}
