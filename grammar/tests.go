package grammar

import (
	"strings"

	"github.com/npillmayer/phrase"
)

// DelimTest checks the delimiter text in front of a token or behind it.
// Whitespace is not significant. If Require is set, the delimiter has to contain
// it; if Forbid is set, the delimiter must not contain it. Without either, the
// test is not applicable.
type DelimTest struct {
	Post    bool // test the delimiter after the token
	Require string
	Forbid  string
}

// Accept is part of interface StepTest.
func (dt DelimTest) Accept(tok phrase.Token, ctx Context) Verdict {
	if dt.Require == "" && dt.Forbid == "" {
		return NotApplicable
	}
	delim := tok.PreDelim()
	if dt.Post {
		delim = tok.PostDelim()
	}
	delim = strings.Join(strings.Fields(delim), "")
	if dt.Require != "" && !strings.Contains(delim, dt.Require) {
		return Fail
	}
	if dt.Forbid != "" && strings.Contains(delim, dt.Forbid) {
		return Fail
	}
	return Pass
}

// ClusterTest checks how a token clusters with its predecessor. With Glued set,
// the token must directly follow the previous token without any delimiter;
// otherwise it must be separated from it. The first token of an input does not
// have a predecessor and the test is not applicable.
type ClusterTest struct {
	Glued bool
}

// Accept is part of interface StepTest.
func (ct ClusterTest) Accept(tok phrase.Token, ctx Context) Verdict {
	if tok.Span().From() == 0 {
		return NotApplicable
	}
	glued := tok.PreDelim() == ""
	if glued == ct.Glued {
		return Pass
	}
	return Fail
}

var _ StepTest = DelimTest{}
var _ StepTest = ClusterTest{}
