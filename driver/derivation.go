package driver

import (
	"strings"

	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/tree"
)

// BuildTree reconstructs the parse tree rooted at the entry by following back pointers. Parent
// annotations are stripped from every label.
func BuildTree(g *grammar.Grammar, c *Chart, e *Entry) *tree.Tree {
	return newReconstructor(g, c).tree(e).Fill()
}

// Translate reconstructs the target-side string of the derivation rooted at the entry.
func Translate(g *grammar.Grammar, c *Chart, e *Entry) string {
	return newReconstructor(g, c).translate(e)
}

type reconstructor struct {
	g *grammar.Grammar
	c *Chart
}

func newReconstructor(g *grammar.Grammar, c *Chart) *reconstructor {
	return &reconstructor{
		g: g,
		c: c,
	}
}

// children returns the entries the binary entry was built from. Spans shrink on every step, so the
// recursion depth is bounded by the input length.
func (r *reconstructor) children(e *Entry) (*Entry, *Entry) {
	left, _ := r.c.Lookup(e.Start, e.Split, e.Rule.RHS[0])
	right, _ := r.c.Lookup(e.Split, e.End, e.Rule.RHS[1])
	return left, right
}

func (r *reconstructor) tree(e *Entry) *tree.Tree {
	if e.IsTerminal() {
		return tree.NewLeaf(r.c.tokens[e.Start])
	}

	label := grammar.StripAugmentation(r.g.SymbolText(e.Rule.LHS))
	if e.Split == NoSplit {
		return tree.NewNonTerminalTree(label, tree.NewLeaf(r.c.tokens[e.Start]))
	}
	left, right := r.children(e)
	return tree.NewNonTerminalTree(label, r.tree(left), r.tree(right))
}

// translate walks the target template of the rule. Literal tokens are emitted verbatim and
// placeholders are replaced with the output of the child they refer to, which reorders the source.
// Lexical rules emit nothing; a terminal referred to by a binary rule emits the input token.
func (r *reconstructor) translate(e *Entry) string {
	if e.IsTerminal() {
		return r.c.tokens[e.Start]
	}
	if e.Split == NoSplit {
		return ""
	}

	left, right := r.children(e)
	outputs := [2]string{
		r.translate(left),
		r.translate(right),
	}
	var pieces []string
	for _, elem := range e.Rule.Target {
		s := elem.Text
		if elem.IsPlaceholder() {
			s = outputs[elem.Child]
		}
		if s == "" {
			continue
		}
		pieces = append(pieces, s)
	}
	return strings.Join(pieces, " ")
}
