package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Builder is a builder type for grammars. Create one with NewBuilder, add
// rules with LHS(…) and classifiers with Classify(…), then call Grammar().
type Builder struct {
	name        string
	rules       []*Rule
	classifiers map[string][]Classifier
	filters     map[string]TokenFilter
	errs        []error
}

// NewBuilder creates a builder for a grammar with a name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:        name,
		classifiers: make(map[string][]Classifier),
		filters:     make(map[string]TokenFilter),
	}
}

// LHS starts a new rule deriving a category.
func (b *Builder) LHS(category string) *RuleBuilder {
	r := &Rule{
		Name:   category,
		Serial: len(b.rules),
	}
	return &RuleBuilder{b: b, rule: r}
}

// Classify registers classifiers for a category.
func (b *Builder) Classify(category string, c ...Classifier) *Builder {
	for _, cl := range c {
		if cl == nil {
			b.errs = append(b.errs, fmt.Errorf("nil classifier for category %q", category))
			continue
		}
		b.classifiers[category] = append(b.classifiers[category], cl)
	}
	return b
}

// Filter registers a token filter under an id. Rules refer to filters with
// RuleBuilder.FilterWith(id).
func (b *Builder) Filter(id string, f TokenFilter) *Builder {
	if f == nil {
		b.errs = append(b.errs, fmt.Errorf("nil token filter %q", id))
		return b
	}
	b.filters[id] = f
	return b
}

// Grammar validates the rules and creates an immutable grammar.
// Validation checks that every rule has at least one step and that every step
// category resolves to sub-rules, to classifiers, or is usable as a literal.
func (b *Builder) Grammar() (*Grammar, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	g := &Grammar{
		Name:        b.name,
		rules:       treemap.NewWithStringComparator(),
		classifiers: treemap.NewWithStringComparator(),
		filters:     make(map[string]TokenFilter, len(b.filters)),
	}
	if len(b.rules) == 0 {
		return nil, errors.New("grammar has no rules")
	}
	for _, r := range b.rules {
		var alternatives []*Rule
		if rs, found := g.rules.Get(r.Name); found {
			alternatives = rs.([]*Rule)
		}
		g.rules.Put(r.Name, append(alternatives, r))
		g.all = append(g.all, r)
		if r.IsStart {
			g.start = append(g.start, r)
		}
	}
	for cat, c := range b.classifiers {
		g.classifiers.Put(cat, c)
	}
	for id, f := range b.filters {
		g.filters[id] = f
	}
	for _, r := range g.all {
		if err := validate(g, r); err != nil {
			return nil, err
		}
	}
	g.computeNullable()
	for _, r := range g.all {
		r.computeTerminals(g.nullable)
	}
	if len(g.start) == 0 {
		return nil, fmt.Errorf("grammar %s has no start rules", b.name)
	}
	return g, nil
}

func validate(g *Grammar, r *Rule) error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("rule %q has no steps", r.Name)
	}
	if r.FilterID != "" && g.Filter(r.FilterID) == nil {
		return fmt.Errorf("rule %q refers to unknown token filter %q", r.Name, r.FilterID)
	}
	for i, step := range r.Steps {
		if g.IsRuleCategory(step.Category) && step.Optional && !r.IsLastStep(i) {
			tracer().Infof("rule %q, step %d: optional %q will be skipped before its rules are tried",
				r.Name, i, step.Category)
		}
		if step.IgnoreToken || g.IsRuleCategory(step.Category) || len(g.ClassifiersFor(step.Category)) > 0 {
			continue
		}
		if !isLiteral(step.Category) { // neither rules nor classifiers nor a literal
			return fmt.Errorf("rule %q, step %d: category %q cannot be resolved", r.Name, i, step.Category)
		}
		tracer().Debugf("rule %q, step %d: category %q will be matched literally", r.Name, i, step.Category)
	}
	return nil
}

func isLiteral(category string) bool {
	return category != "" && strings.TrimSpace(category) == category
}

// --- Rule builder ----------------------------------------------------------

// RuleBuilder adds steps to a rule. Step modifiers (Opt, Rep, …) apply to the
// most recently added step.
type RuleBuilder struct {
	b    *Builder
	rule *Rule
	step *RuleStep // modifiers apply to this step
}

// ID sets an external identifier for the rule.
func (rb *RuleBuilder) ID(id string) *RuleBuilder {
	rb.rule.ID = id
	return rb
}

// Start flags the rule as a start rule.
func (rb *RuleBuilder) Start() *RuleBuilder {
	rb.rule.IsStart = true
	return rb
}

// FilterWith sets a token filter for the rule.
func (rb *RuleBuilder) FilterWith(id string) *RuleBuilder {
	rb.rule.FilterID = id
	return rb
}

// Step appends a step for a category. Steps consume their token by default.
func (rb *RuleBuilder) Step(category string) *RuleBuilder {
	rb.step = &RuleStep{Category: category, ConsumeToken: true}
	rb.rule.Steps = append(rb.rule.Steps, rb.step)
	return rb
}

// Pop appends a pop step, i.e. tests to be run when returning from a sub-rule
// of the given category into this rule. An empty category applies to every
// return.
func (rb *RuleBuilder) Pop(category string, tests ...StepTest) *RuleBuilder {
	rb.step = &RuleStep{Category: category, tests: tests}
	rb.rule.PopSteps = append(rb.rule.PopSteps, rb.step)
	return rb
}

func (rb *RuleBuilder) current(modifier string) *RuleStep {
	if rb.step == nil {
		rb.b.errs = append(rb.b.errs, fmt.Errorf("rule %q: %s before first step", rb.rule.Name, modifier))
		return &RuleStep{}
	}
	return rb.step
}

// Opt flags the current step as optional.
//
// An optional step is skipped before sub-rules of its category are tried. For
// a category derived by rules, Opt therefore works reliably for the last step
// of a rule only. Write an optional sub-phrase elsewhere as an alternative rule
// without the step, e.g. `s -> np verb` plus `s -> verb` instead of `s -> np? verb`.
func (rb *RuleBuilder) Opt() *RuleBuilder {
	rb.current("Opt").Optional = true
	return rb
}

// Rep flags the current step as repeating.
func (rb *RuleBuilder) Rep() *RuleBuilder {
	rb.current("Rep").Repeats = true
	return rb
}

// NoConsume lets the current step match without advancing the input.
func (rb *RuleBuilder) NoConsume() *RuleBuilder {
	rb.current("NoConsume").ConsumeToken = false
	return rb
}

// Ignore lets the current step bypass classification. It will match whenever
// its tests accept the token.
func (rb *RuleBuilder) Ignore() *RuleBuilder {
	rb.current("Ignore").IgnoreToken = true
	return rb
}

// Terminal flags the current step as a possible end of the rule.
func (rb *RuleBuilder) Terminal() *RuleBuilder {
	rb.current("Terminal").IsTerminal = true
	return rb
}

// PreDelim sets a test for the delimiter text in front of the current step's token.
func (rb *RuleBuilder) PreDelim(require, forbid string) *RuleBuilder {
	rb.current("PreDelim").preDelim = DelimTest{Require: require, Forbid: forbid}
	return rb
}

// PostDelim sets a test for the delimiter text after the current step's token.
func (rb *RuleBuilder) PostDelim(require, forbid string) *RuleBuilder {
	rb.current("PostDelim").postDelim = DelimTest{Post: true, Require: require, Forbid: forbid}
	return rb
}

// Cluster sets a clustering test for the current step.
func (rb *RuleBuilder) Cluster(glued bool) *RuleBuilder {
	rb.current("Cluster").cluster = ClusterTest{Glued: glued}
	return rb
}

// Test adds pluggable tests to the current step.
func (rb *RuleBuilder) Test(tests ...StepTest) *RuleBuilder {
	step := rb.current("Test")
	step.tests = append(step.tests, tests...)
	return rb
}

// End completes the rule and adds it to the grammar under construction.
func (rb *RuleBuilder) End() *Rule {
	rb.b.rules = append(rb.b.rules, rb.rule)
	return rb.rule
}
