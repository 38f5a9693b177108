package tree

import (
	"bytes"
	"fmt"
	"strings"
)

// Tree is a labeled derivation tree. A node without children is a leaf and its label is a terminal
// token.
type Tree struct {
	Parent   *Tree
	Offset   int
	Label    string
	Children []*Tree
}

func NewNonTerminalTree(label string, children ...*Tree) *Tree {
	return &Tree{
		Label:    label,
		Children: children,
	}
}

func NewLeaf(label string) *Tree {
	return &Tree{
		Label: label,
	}
}

// Fill sets the parent references and the offsets of all descendants.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Leaves returns the labels of the leaves from left to right.
func (t *Tree) Leaves() []string {
	if t.IsLeaf() {
		return []string{t.Label}
	}
	var leaves []string
	for _, c := range t.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Label
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Label)
}

// String returns the tree in the one-line bracketed notation, such as `(S (NP dogs) (VP bark))`.
func (t *Tree) String() string {
	var b strings.Builder
	t.writeString(&b)
	return b.String()
}

func (t *Tree) writeString(b *strings.Builder) {
	if t.IsLeaf() {
		b.WriteString(t.Label)
		return
	}
	b.WriteString("(")
	b.WriteString(t.Label)
	for _, c := range t.Children {
		b.WriteString(" ")
		c.writeString(b)
	}
	b.WriteString(")")
}

// Format returns the tree in the bracketed notation with one node per line. Pre-terminal nodes are
// kept on one line together with their token.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	if t.IsLeaf() {
		buf.WriteString(t.Label)
		return
	}
	if t.isPreTerminal() {
		buf.WriteString(t.String())
		return
	}
	buf.WriteString("(")
	buf.WriteString(t.Label)
	buf.WriteString("\n")
	for i, c := range t.Children {
		c.format(buf, depth+1)
		if i < len(t.Children)-1 {
			buf.WriteString("\n")
		}
	}
	buf.WriteString(")")
}

func (t *Tree) isPreTerminal() bool {
	return len(t.Children) == 1 && t.Children[0].IsLeaf()
}

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// DiffTree compares two trees node by node. The label `_` in the expected tree matches any label.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*TreeDiff{
			{
				Message: "one of the trees is missing",
			},
		}
	}
	if expected.Label != "_" && actual.Label != expected.Label {
		msg := fmt.Sprintf("unexpected label: expected '%v' but got '%v'", expected.Label, actual.Label)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}
