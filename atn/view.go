package atn

import (
	"strings"
	"sync"

	"github.com/cnf/structhash"
	"github.com/npillmayer/phrase"
)

// CategorizedToken is an input token together with the grammar category it
// has been matched as.
type CategorizedToken struct {
	Token    phrase.Token
	Category string
}

// UnknownCategory labels tokens skipped by the parser.
const UnknownCategory = "?"

// --- Parse trees -----------------------------------------------------------

// TreeNode is a node of a parse tree. Inner nodes are labeled with the category
// of a rule, leaves with the category of a token or with the token's text.
type TreeNode struct {
	Label    string
	Token    *CategorizedToken // set for nodes representing an input token
	Children []*TreeNode
	parent   *TreeNode
}

func (n *TreeNode) add(child *TreeNode) *TreeNode {
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// IsUnknown is true for nodes representing a skipped token.
func (n *TreeNode) IsUnknown() bool {
	return n.Token != nil && n.Token.Category == UnknownCategory
}

// Each walks the tree depth-first, calling f for every node together with its
// depth in the tree.
func (n *TreeNode) Each(f func(node *TreeNode, depth int)) {
	n.each(f, 0)
}

func (n *TreeNode) each(f func(*TreeNode, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.each(f, depth+1)
	}
}

// String renders a tree in prefix notation, e.g. np(adjective(big),noun(dog)).
func (n *TreeNode) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *TreeNode) render(b *strings.Builder) {
	b.WriteString(n.Label)
	if len(n.Children) == 0 {
		return
	}
	b.WriteByte('(')
	for i, ch := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		ch.render(b)
	}
	b.WriteByte(')')
}

// sigNode is the form of a tree node used for signatures.
type sigNode struct {
	Label    string
	Span     [2]uint64
	Children []sigNode
}

func (n *TreeNode) signature() sigNode {
	sn := sigNode{Label: n.Label}
	if n.Token != nil {
		sn.Span = [2]uint64(n.Token.Token.Span())
	}
	for _, ch := range n.Children {
		sn.Children = append(sn.Children, ch.signature())
	}
	return sn
}

// --- Parses ----------------------------------------------------------------

// Parse is a view of a single parse, i.e. of a valid end state within the
// search tree of a parse result. Parse trees and categorized tokens are
// derived from the path leading to the end state on first request.
type Parse struct {
	pr     *ParseResult
	end    StateID
	once   sync.Once
	tree   *TreeNode
	tokens []CategorizedToken
	span   phrase.Span
	sig    string
}

// State returns the valid end state of the parse.
func (p *Parse) State() *State {
	return p.pr.state(p.end)
}

// Result returns the parse result p is part of.
func (p *Parse) Result() *ParseResult {
	return p.pr
}

// Tree returns the parse tree. The root of the tree is labeled with the
// category of the start rule.
func (p *Parse) Tree() *TreeNode {
	p.once.Do(p.derive)
	return p.tree
}

// CategorizedTokens returns the tokens consumed by the parse, in input order,
// together with the category they have been matched as.
func (p *Parse) CategorizedTokens() []CategorizedToken {
	p.once.Do(p.derive)
	return p.tokens
}

// Span returns the input positions covered by the parse.
func (p *Parse) Span() phrase.Span {
	p.once.Do(p.derive)
	return p.span
}

// Text returns the input text covered by the parse.
func (p *Parse) Text() string {
	return phrase.TextOf(p.pr.first.Input(), p.Span())
}

// FirstToken returns the first token consumed by the parse. If the parse did
// not consume any token, it is the token the parse started at.
func (p *Parse) FirstToken() phrase.Token {
	if tokens := p.CategorizedTokens(); len(tokens) > 0 {
		return tokens[0].Token
	}
	return p.pr.first
}

// LastToken returns the last token consumed by the parse. If the parse did
// not consume any token, it is the token the parse started at.
func (p *Parse) LastToken() phrase.Token {
	if tokens := p.CategorizedTokens(); len(tokens) > 0 {
		return tokens[len(tokens)-1].Token
	}
	return p.pr.first
}

// Signature returns a hash of the parse tree. Parses with identical trees over
// identical tokens have identical signatures.
func (p *Parse) Signature() string {
	p.once.Do(p.derive)
	return p.sig
}

func (p *Parse) String() string {
	return p.Span().String() + " " + p.Tree().String()
}

// path returns the states from the start state to the end state.
func (p *Parse) path() []*State {
	var path []*State
	for id := p.end; id > 0; id = p.pr.state(id).parent {
		path = append(path, p.pr.state(id))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// derive walks the path to the end state and builds the parse tree and the
// list of categorized tokens. A push opens a node for the category of the
// calling step, a pop closes it again.
func (p *Parse) derive() {
	path := p.path()
	root := &TreeNode{Label: path[0].rule.Name}
	node := root
	for _, s := range path {
		switch s.via {
		case viaPush:
			node = node.add(&TreeNode{Label: p.pr.state(s.push).category()})
		case viaSkipToken:
			skipped := p.pr.state(s.parent).token
			node.add(leaf(CategorizedToken{Token: skipped, Category: UnknownCategory}))
		}
		if s.popped {
			for i := 0; i < s.popCount && node.parent != nil; i++ {
				node = node.parent
			}
			continue
		}
		if s.matched && s.consumed {
			ct := CategorizedToken{Token: s.token, Category: s.category()}
			node.add(leaf(ct))
			p.tokens = append(p.tokens, ct)
		}
	}
	p.tree = root
	if len(p.tokens) > 0 {
		p.span = phrase.Span{p.tokens[0].Token.Span().From(), p.tokens[len(p.tokens)-1].Token.Span().To()}
	} else {
		from := p.pr.first.Span().From()
		p.span = phrase.Span{from, from}
	}
	sig, err := structhash.Hash(root.signature(), 1)
	if err != nil {
		tracer().Errorf("cannot create signature for parse: %v", err)
	}
	p.sig = sig
}

// leaf creates a node for a token. If the token's text differs from the
// category, the text is nested as a child.
func leaf(ct CategorizedToken) *TreeNode {
	n := &TreeNode{Label: ct.Category, Token: &ct}
	if text := ct.Token.Lexeme(); text != ct.Category {
		n.add(&TreeNode{Label: text, Token: &ct})
	}
	return n
}
