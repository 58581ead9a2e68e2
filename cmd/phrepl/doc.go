/*
Package phrepl/main provides an interactive command line tool (Ph.REPL)
for experiments with ATN phrase grammars. Ph.REPL parses every line a user
enters with a small demo grammar for English phrases and prints the parse
trees it finds.

Lines starting with a colon are commands:

	:seek         find every phrase within the following lines (default)
	:parse        parse the following lines from their first token
	:skip <n>     let rule steps skip up to n unknown tokens
	:all          consume all text of a line (parse mode only)
	:rules        list the rules of the demo grammar
	:quit         leave Ph.REPL

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'phrase.repl'
func tracer() tracing.Trace {
	return tracing.Select("phrase.repl")
}
