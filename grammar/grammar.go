package grammar

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/phrase"
)

// --- Rule steps ------------------------------------------------------------

// RuleStep is a single step of a rule. It names a category, which is either the
// name of other rules or a terminal category.
type RuleStep struct {
	Category     string
	Optional     bool // step may be skipped
	Repeats      bool // step may match more than once
	ConsumeToken bool // matching advances the input
	IgnoreToken  bool // do not classify the token, just run the tests
	IsTerminal   bool // rule may end after this step, even if later steps are mandatory
	preDelim     StepTest
	postDelim    StepTest
	cluster      StepTest
	tests        []StepTest
}

// Verify runs the composed verification predicate of a step: pre-delimiter
// test, post-delimiter test, clustering test and pluggable tests.
func (step *RuleStep) Verify(tok phrase.Token, ctx Context) Verdict {
	if v := Combine(tok, ctx, step.preDelim, step.postDelim, step.cluster); v == Fail {
		return Fail
	}
	return Combine(tok, ctx, step.tests...)
}

// Accepts is true if the verification predicate does not fail.
func (step *RuleStep) Accepts(tok phrase.Token, ctx Context) bool {
	return step.Verify(tok, ctx) != Fail
}

func (step *RuleStep) String() string {
	s := step.Category
	if step.Optional {
		s += "?"
	}
	if step.Repeats {
		s += "+"
	}
	if !step.ConsumeToken {
		s += "°"
	}
	return s
}

// --- Rules -----------------------------------------------------------------

// Rule is a sequence of steps, deriving a category. A category may be derived
// by more than one rule; these rules are alternatives.
type Rule struct {
	Name     string // the category this rule derives
	ID       string // externally assigned identifier, optional
	Serial   int    // order of declaration within the grammar
	IsStart  bool
	FilterID string      // id of a token filter, optional
	Steps    []*RuleStep // at least one
	PopSteps []*RuleStep // tests for returns from sub-rules into this rule
	terminal []bool
}

// Step returns step #n of a rule.
func (r *Rule) Step(n int) *RuleStep {
	if n < 0 || n >= len(r.Steps) {
		return nil
	}
	return r.Steps[n]
}

// IsLastStep is true if n denotes the last step of r.
func (r *Rule) IsLastStep(n int) bool {
	return n == len(r.Steps)-1
}

// IsTerminalStep is true if the rule may end after having matched step n.
func (r *Rule) IsTerminalStep(n int) bool {
	if n < 0 || n >= len(r.terminal) {
		return false
	}
	return r.terminal[n]
}

// TerminalSteps returns the step indices where r may end.
func (r *Rule) TerminalSteps() []int {
	var t []int
	for i, term := range r.terminal {
		if term {
			t = append(t, i)
		}
	}
	return t
}

// A step is terminal if it is flagged as such or if every step after it may
// be left out, being optional or a category deriving the empty phrase.
func (r *Rule) computeTerminals(nullable map[string]bool) {
	r.terminal = make([]bool, len(r.Steps))
	allOptional := true
	for i := len(r.Steps) - 1; i >= 0; i-- {
		r.terminal[i] = allOptional || r.Steps[i].IsTerminal
		allOptional = allOptional && (r.Steps[i].Optional || nullable[r.Steps[i].Category])
	}
}

// derivesEmpty is true if every step of r may be left out.
func (r *Rule) derivesEmpty(nullable map[string]bool) bool {
	for _, step := range r.Steps {
		if !step.Optional && !nullable[step.Category] {
			return false
		}
	}
	return true
}

// VerifyPop checks whether a return from a sub-rule, which has matched the
// step with the given category, into r is acceptable. Pop steps apply if they
// name the category or if they have an empty category.
func (r *Rule) VerifyPop(tok phrase.Token, ctx Context, category string) bool {
	for _, pop := range r.PopSteps {
		if pop.Category != "" && pop.Category != category {
			continue
		}
		if !pop.Accepts(tok, ctx) {
			tracer().Debugf("pop from %s into %s rejected", category, r.Name)
			return false
		}
	}
	return true
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(r.Name)
	b.WriteString(" ::= [")
	for i, step := range r.Steps {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(step.String())
	}
	b.WriteString("]")
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is the read-only lookup structure for rules and classifiers of
// categories. Create one with a Builder.
type Grammar struct {
	Name        string
	rules       *treemap.Map // category → []*Rule
	classifiers *treemap.Map // category → []Classifier
	filters     map[string]TokenFilter
	start       []*Rule
	all         []*Rule
	nullable    map[string]bool // categories deriving the empty phrase
}

// RulesFor returns the alternative rules deriving a category.
func (g *Grammar) RulesFor(category string) []*Rule {
	if r, found := g.rules.Get(category); found {
		return r.([]*Rule)
	}
	return nil
}

// IsRuleCategory is true if the category is derived by rules.
func (g *Grammar) IsRuleCategory(category string) bool {
	_, found := g.rules.Get(category)
	return found
}

// IsNullable is true if the category is derived by at least one rule which
// may match the empty phrase.
func (g *Grammar) IsNullable(category string) bool {
	return g.nullable[category]
}

// computeNullable collects the categories deriving the empty phrase, until
// no more categories are found.
func (g *Grammar) computeNullable() {
	g.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range g.all {
			if !g.nullable[r.Name] && r.derivesEmpty(g.nullable) {
				tracer().Debugf("category %q derives the empty phrase", r.Name)
				g.nullable[r.Name] = true
				changed = true
			}
		}
	}
}

// ClassifiersFor returns the classifiers registered for a category.
func (g *Grammar) ClassifiersFor(category string) []Classifier {
	if c, found := g.classifiers.Get(category); found {
		return c.([]Classifier)
	}
	return nil
}

// StartRules returns the start rules in order of declaration. If names are
// given, only start rules deriving one of these categories are returned.
func (g *Grammar) StartRules(names ...string) []*Rule {
	if len(names) == 0 {
		return g.start
	}
	var start []*Rule
	for _, r := range g.start {
		for _, n := range names {
			if r.Name == n {
				start = append(start, r)
				break
			}
		}
	}
	return start
}

// Rules returns all rules of g in order of declaration.
func (g *Grammar) Rules() []*Rule {
	return g.all
}

// Rule returns rule #n.
func (g *Grammar) Rule(n int) *Rule {
	if n < 0 || n >= len(g.all) {
		return nil
	}
	return g.all[n]
}

// Filter returns the token filter with the given id, or nil.
func (g *Grammar) Filter(id string) TokenFilter {
	if id == "" {
		return nil
	}
	return g.filters[id]
}

// AcceptToken returns the first token at or after tok which is accepted by the
// token filter of rule r. Without a filter, this is tok itself.
func (g *Grammar) AcceptToken(r *Rule, tok phrase.Token) phrase.Token {
	filter := g.Filter(r.FilterID)
	if filter == nil {
		return tok
	}
	for tok != nil && !filter.Accept(tok) {
		tracer().Debugf("filter %s passes over %q", r.FilterID, tok.Lexeme())
		tok = tok.Next()
	}
	return tok
}

// NextToken returns the token following tok, as seen by rule r.
func (g *Grammar) NextToken(r *Rule, tok phrase.Token) phrase.Token {
	if tok == nil {
		return nil
	}
	return g.AcceptToken(r, tok.Next())
}

// Dump is a debugging helper, tracing the grammar's rules.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s %s", g.Name, "----------------------------------------")
	g.rules.Each(func(k, v interface{}) {
		for _, r := range v.([]*Rule) {
			start := ""
			if r.IsStart {
				start = "   (start)"
			}
			tracer().Debugf("%3d: %s%s", r.Serial, r, start)
		}
	})
	for _, k := range g.classifiers.Keys() {
		cs, _ := g.classifiers.Get(k)
		tracer().Debugf("     %s classified by %d classifier(s)", k, len(cs.([]Classifier)))
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	return fmt.Sprintf("(grammar %s | %d rules)", g.Name, len(g.all))
}
