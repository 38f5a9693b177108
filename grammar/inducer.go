package grammar

import (
	"github.com/nihei9/pcfg/spec/tree"
)

// Inducer builds an induced grammar from labeled derivation trees.
type Inducer struct {
	g        *Grammar
	markov   bool
	smoothed bool
}

func NewInducer(opts ...Option) *Inducer {
	c := newBuildConfig(opts)
	g := newGrammar(KindInduced, c.unknown)
	g.markovized = c.markovize
	return &Inducer{
		g:      g,
		markov: c.markovize,
	}
}

// Add extracts one rule from every internal node of the tree. Leaves are recorded as seen words.
func (in *Inducer) Add(t *tree.Tree) error {
	if in.smoothed {
		return semErrInducerClosed
	}
	if t == nil {
		return nil
	}
	return in.addNode(t.Fill())
}

func (in *Inducer) addNode(n *tree.Tree) error {
	if n.IsLeaf() {
		in.g.AddWord(n.Label)
		return nil
	}

	rhs := make([]Element, len(n.Children))
	for i, c := range n.Children {
		if c.IsLeaf() {
			rhs[i] = Terminal(c.Label)
		} else {
			rhs[i] = NonTerminal(in.label(c))
		}
	}
	if _, err := in.g.AddRule(in.label(n), rhs...); err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := in.addNode(c); err != nil {
			return err
		}
	}
	return nil
}

// label returns the label the node has in rules. The parent annotation is derived from the label the
// parent has in the tree, so the annotation is exactly one level deep.
func (in *Inducer) label(n *tree.Tree) string {
	if !in.markov || n.Parent == nil {
		return n.Label
	}
	return AugmentLabel(n.Label, n.Parent.Label)
}

// Grammar smooths the grammar and returns it. Smoothing adds `lhs -> <unk>` once for every LHS, so
// every non-terminal can cover a token unseen in training data. Trees cannot be added afterwards.
func (in *Inducer) Grammar() (*Grammar, error) {
	if in.smoothed {
		return in.g, nil
	}
	in.smoothed = true

	bases := make([]string, len(in.g.Bases()))
	for i, lhs := range in.g.Bases() {
		bases[i] = in.g.SymbolText(lhs)
	}
	for _, lhs := range bases {
		if _, err := in.g.AddRule(lhs, Terminal(in.g.unknown)); err != nil {
			return nil, err
		}
	}
	return in.g, nil
}

// Induce builds a smoothed grammar from the trees.
func Induce(trees []*tree.Tree, opts ...Option) (*Grammar, error) {
	in := NewInducer(opts...)
	for _, t := range trees {
		if err := in.Add(t); err != nil {
			return nil, err
		}
	}
	return in.Grammar()
}
