/*
Package atn implements a parser for phrases, driven by an augmented transition
network (ATN).

Grammars for the parser are sets of rules. Every rule consists of a sequence of
steps, each of which names a category. A category either denotes other rules
of the grammar, in which case the parser descends into these rules, or a
terminal category, which is matched against an input token by classifiers, by
literal text or by a token feature. Steps may be optional, may repeat, may
refrain from consuming input and may carry tests on delimiters and context.

The parser performs a breadth-first search over parser states. States form a
tree: every state is attached to the state it has been derived from, and every
path from the root to a valid end state represents a complete parse.
Descending into a sub-rule (push) and returning from it (pop) is simulated by
back-references between states, so the parser never recurses on the Go stack,
regardless of how deeply the grammar nests.

	g, _ := b.Grammar()
	p := atn.NewParser(g)
	result, err := p.Parse(chain.First(), atn.DefaultOptions(), nil)
	result.GenerateParses(0)  // find all parses
	for _, parse := range result.Parses() {
		fmt.Println(parse.Tree())
	}

Parse results are lazy: a ParseResult is a controller for the search, which
continues only as far as clients request parses. Parsers may also seek through
an input to find every phrase the grammar recognizes (see SeekAll).

Configuration

The following global configuration keys (package gconf) are read for default
options:

	atn-skip-token-limit    unknown tokens a rule step may skip, default 0
	atn-consume-all-text    parses have to cover the input up to its end
	atn-first-parse-only    stop the search after the first parse
	atn-expansion-limit     ceiling for state expansions per parse, default 250000
	atn-panic-on-limit      panic instead of returning ErrExpansionLimit

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package atn

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'phrase.atn'.
func tracer() tracing.Trace {
	return tracing.Select("phrase.atn")
}
