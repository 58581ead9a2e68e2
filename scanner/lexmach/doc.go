/*
Package lexmach builds raw tokenizers for token chains from lexmachine DFAs.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

A Lexer is compiled once from a list of patterns and literals. Patterns map
regular expressions to token types or mark text to be skipped, literals are
matched verbatim and typed by their first rune. This mirrors scanner.Words,
so grammars may use the same literal categories with either tokenizer.

	lx, err := lexmach.NewLexer([]lexmach.Pattern{
		{Regex: `[a-zA-Z]+`, Type: scanner.Ident},
		{Regex: `[0-9]+`, Type: scanner.Int},
		{Regex: `( |\t|\n)+`, Skip: true},
	}, "-", ",", ".")
	if err != nil {
		// do error handling
	}
	chain, err := lx.Chain("twenty-one dogs")

Text which no pattern matches is reported as an UnmatchedInputError.
scanner.Chain fails on the first of these errors. Clients iterating a
Tokenizer directly may install their own error handler and carry on.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'phrase.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("phrase.scanner")
}
