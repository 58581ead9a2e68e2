/*
Package grammar implements the grammar model for ATN phrase parsing.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add rules,
consisting of ordered steps. Every step names a category. A category is either
the name of other rules (the parser will then push into one of these rules),
a category with classifiers attached, or a literal to be compared with the
token text.

Example:

    b := grammar.NewBuilder("G")
    b.LHS("np").Start().Step("adjective").Opt().Rep().Step("noun").End()  // np -> adjective* noun
    b.LHS("vp").Start().Step("verb").Step("np").End()                     // vp -> verb np
    b.Classify("adjective", classify.Terms("big", "red"))
    b.Classify("noun", classify.Terms("dog"))
    b.Classify("verb", classify.Terms("sees"))
    g, err := b.Grammar()

This results in the following grammar:

    g.Dump()

    np  ::= [adjective?+ noun]      (start)
    vp  ::= [verb np]               (start)

A grammar is immutable after it has been built and may be shared between any
number of concurrently running parsers.

Capabilities

The parsing engine calls out to classifiers and rule step tests. Both are
interfaces, and implementations are registered explicitly with the builder.
Rule step tests return a tri-state verdict: Pass, Fail or NotApplicable.
Tests of a step are combined as an AND-pipeline, where NotApplicable does not
block.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'phrase.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("phrase.grammar")
}
