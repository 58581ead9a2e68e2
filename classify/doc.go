/*
Package classify provides reference classifiers for grammar categories.

Classifiers decide whether an input token belongs to a terminal category of a
grammar. They are registered with a grammar builder:

    b := grammar.NewBuilder("NP")
    b.Classify("adjective", classify.Terms("adjective", "big", "red"))
    b.Classify("number", classify.Types(scanner.Int))

Classifiers in this package attach a feature named after their category to a
token they accept. Steps of other rules may then match the token by feature
(see HasFeature).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package classify

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'phrase.classify'.
func tracer() tracing.Trace {
	return tracing.Select("phrase.classify")
}
