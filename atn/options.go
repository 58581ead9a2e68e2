package atn

import (
	"errors"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gconf"
)

// ErrExpansionLimit is reported by parse results which have given up because
// the search grew beyond the configured number of state expansions.
var ErrExpansionLimit = errors.New("atn: state expansion limit exceeded")

// ErrNoInput is returned when a parse is started without an input token.
var ErrNoInput = errors.New("atn: no input token")

const defaultExpansionLimit = 250000

// Options control a single parse.
type Options struct {
	ConsumeAllText bool     // a parse has to reach the end of the input
	FirstParseOnly bool     // stop searching after the first parse
	SkipTokenLimit int      // number of unknown tokens a step may pass over
	ExpansionLimit int      // ceiling for state expansions, 0 for the configured default
	StartRules     []string // restrict start rules to these categories
}

// DefaultOptions returns options as configured by the global configuration.
func DefaultOptions() Options {
	return Options{
		ConsumeAllText: gconf.GetBool("atn-consume-all-text"),
		FirstParseOnly: gconf.GetBool("atn-first-parse-only"),
		SkipTokenLimit: gconf.GetInt("atn-skip-token-limit"),
	}
}

func (opts Options) expansionLimit() int {
	if opts.ExpansionLimit > 0 {
		return opts.ExpansionLimit
	}
	if l := gconf.GetInt("atn-expansion-limit"); l > 0 {
		return l
	}
	return defaultExpansionLimit
}

// --- Stop sets -------------------------------------------------------------

// StopSet is a set of input positions. The parser will not advance onto a
// token starting at one of these positions. Parsers running more than one
// grammar over an input use stop sets to protect spans already parsed.
//
// A nil StopSet is empty.
type StopSet struct {
	offsets *treeset.Set
}

// NewStopSet creates a stop set for a list of input positions.
func NewStopSet(offsets ...uint64) *StopSet {
	ss := &StopSet{offsets: treeset.NewWith(utils.UInt64Comparator)}
	for _, o := range offsets {
		ss.offsets.Add(o)
	}
	return ss
}

// Add adds an input position.
func (ss *StopSet) Add(offset uint64) {
	ss.offsets.Add(offset)
}

// AddParse adds the start positions of every token within the span of a parse.
func (ss *StopSet) AddParse(p *Parse) {
	to := p.Span().To()
	for tok := p.FirstToken(); tok != nil && tok.Span().From() < to; tok = tok.Next() {
		ss.offsets.Add(tok.Span().From())
	}
}

// Contains is true if offset is a member of the stop set.
func (ss *StopSet) Contains(offset uint64) bool {
	if ss == nil {
		return false
	}
	return ss.offsets.Contains(offset)
}

// Size returns the number of input positions in the stop set.
func (ss *StopSet) Size() int {
	if ss == nil {
		return 0
	}
	return ss.offsets.Size()
}

// Offsets returns the input positions of the stop set in ascending order.
func (ss *StopSet) Offsets() []uint64 {
	if ss == nil {
		return nil
	}
	offsets := make([]uint64, 0, ss.offsets.Size())
	for _, o := range ss.offsets.Values() {
		offsets = append(offsets, o.(uint64))
	}
	return offsets
}
