/*
Package phrase is a grammar-driven phrase parser, built on the principles of
Augmented Transition Networks (ATN).

A grammar consists of named rules, each made of ordered steps. A step either
refers to another grammar category (which results in a recursive invocation of
sub-rules) or to a terminal category, which is resolved by classifiers, by
literal text or by token features. Given a stream of input tokens, the parser
lazily enumerates every structurally valid way to parse the input (or a prefix
of it), including ambiguous alternatives.

Package structure is as follows:

■ grammar: Package grammar implements the read-only grammar model, a builder for
it and the capability interfaces for classifiers and rule step tests.

■ atn: Package atn implements the search engine: state transitions, the lazy
parse result controller, parse views and the scanning parser façade.

■ scanner: Package scanner produces linked input tokens, including delimiters,
features and alternate tokenizations.

■ classify: Package classify provides reference classifiers for token categories.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package phrase
