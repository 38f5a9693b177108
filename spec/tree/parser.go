package tree

import (
	"bufio"
	"io"
	"strings"

	verr "github.com/nihei9/pcfg/error"
)

func raiseSyntaxError(synErr *SyntaxError, pos Position, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse reads exactly one tree. The tree may span multiple lines.
func Parse(src io.Reader) (*Tree, error) {
	return parseWithOffset(src, 0)
}

func parseWithOffset(src io.Reader, rowOffset int) (*Tree, error) {
	p, err := newParser(src, rowOffset)
	if err != nil {
		return nil, err
	}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	return t.Fill(), nil
}

// ParseString is a shorthand of Parse for a tree held in a string.
func ParseString(src string) (*Tree, error) {
	return Parse(strings.NewReader(src))
}

// Corpus holds the trees of a corpus. Malformed lines don't stop reading; they are reported in
// Errors and left out of Trees.
type Corpus struct {
	Trees  []*Tree
	Errors verr.SpecErrors
}

// ReadCorpus reads a corpus consisting of one tree per line. Empty lines are skipped. The returned
// error reports only failures of the reader.
func ReadCorpus(src io.Reader) (*Corpus, error) {
	c := &Corpus{}
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	row := 0
	for s.Scan() {
		row++
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := parseWithOffset(strings.NewReader(line), row-1)
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				return nil, err
			}
			c.Errors = append(c.Errors, specErr)
			continue
		}
		c.Trees = append(c.Trees, t)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader, rowOffset int) (*parser, error) {
	lex, err := newLexer(src, rowOffset)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (t *Tree, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *Tree {
	if !p.consume(tokenKindLParen) {
		raiseSyntaxError(synErrNoTree, p.peekedTok.pos, p.peekedTok.text)
	}
	t := p.parseNode()
	if !p.consume(tokenKindEOF) {
		raiseSyntaxError(synErrTrailingTokens, p.peekedTok.pos, p.peekedTok.text)
	}
	return t
}

// parseNode parses a node following an opening parenthesis.
func (p *parser) parseNode() *Tree {
	open := p.lastTok.pos

	var label string
	if p.consume(tokenKindLabel) {
		label = p.lastTok.text
	}

	var children []*Tree
	for {
		if p.consume(tokenKindLParen) {
			children = append(children, p.parseNode())
			continue
		}
		if p.consume(tokenKindLabel) {
			children = append(children, NewLeaf(p.lastTok.text))
			continue
		}
		break
	}
	if !p.consume(tokenKindRParen) {
		raiseSyntaxError(synErrUnclosedNode, p.peekedTok.pos, "")
	}

	if label == "" {
		switch {
		case len(children) == 0:
			raiseSyntaxError(synErrEmptyNode, open, "")
		case len(children) == 1 && !children[0].IsLeaf():
			// An unlabeled node wrapping a single tree, such as `( (S ...) )`, stands for the tree.
			return children[0]
		default:
			raiseSyntaxError(synErrNoLabel, open, "")
		}
	}

	// A labeled node without children, such as `(dog)`, is a leaf.
	return NewNonTerminalTree(label, children...)
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			panic(err)
		}
	}
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(synErrInvalidToken, tok.pos, tok.text)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}
