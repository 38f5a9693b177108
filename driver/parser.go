package driver

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/tree"
	"go.uber.org/zap"
)

// DefaultStartSymbol is the start symbol of induced grammars unless specified.
const DefaultStartSymbol = "TOP"

var ErrInputTooLong = errors.New("input exceeds the maximum length")

func PrintTree(w io.Writer, node *tree.Tree) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *tree.Tree, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	fmt.Fprintf(w, "%v%v\n", ruledLine, node.Label)

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

type ParserOption func(p *Parser) error

// StartSymbol sets the symbol a derivation of the whole input must have.
func StartSymbol(sym string) ParserOption {
	return func(p *Parser) error {
		if sym == "" {
			return fmt.Errorf("a start symbol must not be empty")
		}
		p.start = sym
		return nil
	}
}

// Fallback sets a grammar tried when the primary grammar finds no derivation. It is typically a
// grammar trained without vertical markovization.
func Fallback(g *grammar.Grammar) ParserOption {
	return func(p *Parser) error {
		if g == nil {
			return nil
		}
		if g.Kind() != p.primary.g.Kind() {
			return fmt.Errorf("a fallback grammar must be the same kind as the primary grammar; primary: %v, fallback: %v", p.primary.g.Kind(), g.Kind())
		}
		p.fallbackGram = g
		return nil
	}
}

// MaxLength bounds the number of tokens of an input. Zero means no bound.
func MaxLength(n int) ParserOption {
	return func(p *Parser) error {
		if n < 0 {
			return fmt.Errorf("a maximum length must be greater than or equal to 0: %v", n)
		}
		p.maxLen = n
		return nil
	}
}

func Logger(l *zap.Logger) ParserOption {
	return func(p *Parser) error {
		if l != nil {
			p.logger = l
		}
		return nil
	}
}

// Trace receives every entry recorded in charts. Parsers calling the function concurrently must be
// given a function safe for concurrent use.
func Trace(fn TraceFunc) ParserOption {
	return func(p *Parser) error {
		p.trace = fn
		return nil
	}
}

// Result is the best derivation of an input. Tree is set in parse mode and Translation is set in
// translation mode.
type Result struct {
	Tokens      []string
	Tree        *tree.Tree
	Translation string
	Score       float64
	Fallback    bool
}

func (r *Result) String() string {
	if r.Tree != nil {
		return r.Tree.String()
	}
	return r.Translation
}

// Parser decodes inputs with a read-only grammar. A Parser is safe for concurrent use; every call
// builds its own chart.
type Parser struct {
	primary      *engine
	fallback     *engine
	fallbackGram *grammar.Grammar
	start        string
	maxLen       int
	logger       *zap.Logger
	trace        TraceFunc
}

// NewParser creates a parser. The mode follows the kind of the grammar: an induced grammar yields
// parse trees and a synchronous grammar yields translations.
func NewParser(g *grammar.Grammar, opts ...ParserOption) (p *Parser, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		p = nil
		retErr = err
	}()

	p = &Parser{
		start:  DefaultStartSymbol,
		logger: zap.NewNop(),
	}
	if g.Kind() == grammar.KindSynchronous {
		p.start = grammar.DefaultPhraseSymbol
	}
	p.primary = newEngine(g)

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	if p.fallbackGram != nil {
		p.fallback = newEngine(p.fallbackGram)
	}

	return p, nil
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.primary.g
}

// Chart fills the chart of the tokens with the primary grammar.
func (p *Parser) Chart(tokens []string) *Chart {
	return p.primary.fill(tokens, p.trace)
}

// ParseLine splits the line on white spaces and parses the tokens.
func (p *Parser) ParseLine(line string) (*Result, error) {
	return p.Parse(strings.Fields(line))
}

// Parse returns the best derivation of the tokens. When neither the primary grammar nor the fallback
// grammar derives the tokens from the start symbol, it returns nil without an error.
func (p *Parser) Parse(tokens []string) (*Result, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if p.maxLen > 0 && len(tokens) > p.maxLen {
		return nil, fmt.Errorf("%w: %v tokens (max %v)", ErrInputTooLong, len(tokens), p.maxLen)
	}

	if res := p.parseWith(p.primary, tokens); res != nil {
		return res, nil
	}
	if p.fallback == nil {
		return nil, nil
	}
	p.logger.Debug("falling back to the secondary grammar", zap.Int("tokens", len(tokens)))
	res := p.parseWith(p.fallback, tokens)
	if res != nil {
		res.Fallback = true
	}
	return res, nil
}

func (p *Parser) parseWith(e *engine, tokens []string) *Result {
	start, ok := e.g.LookupNonTerminal(p.start)
	if !ok {
		return nil
	}
	c := e.fill(tokens, p.trace)
	top, ok := c.Top(start)
	if !ok {
		return nil
	}

	res := &Result{
		Tokens: tokens,
		Score:  top.Score(),
	}
	if e.g.Kind() == grammar.KindSynchronous {
		res.Translation = Translate(e.g, c, top)
	} else {
		res.Tree = BuildTree(e.g, c, top)
	}
	return res
}
