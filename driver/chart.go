package driver

import (
	"math"

	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/grammar/symbol"
)

// NoSplit is the split point of an entry built from a lexical rule or a terminal.
const NoSplit = -1

// Entry is the best derivation of a symbol over the span [Start, End). Rule is nil for the entry of
// a terminal, which covers the token itself.
type Entry struct {
	Symbol   symbol.Symbol
	Rule     *grammar.Rule
	Start    int
	End      int
	Split    int
	LogScore float64
}

// Score returns the probability of the derivation.
func (e *Entry) Score() float64 {
	return math.Exp(e.LogScore)
}

func (e *Entry) IsTerminal() bool {
	return e.Rule == nil
}

// ChartUpdate describes one recorded entry. Previous is nil when the cell had no entry for the
// symbol.
type ChartUpdate struct {
	Previous *Entry
	Entry    *Entry
}

type TraceFunc func(u *ChartUpdate)

// Chart is the triangular table of a single input. Cell (i, j) maps symbols to their best entries
// over the span [i, j).
type Chart struct {
	tokens []string
	keys   []string
	cells  [][]map[symbol.Symbol]*Entry
}

func newChart(tokens []string) *Chart {
	n := len(tokens)
	cells := make([][]map[symbol.Symbol]*Entry, n)
	for i := 0; i < n; i++ {
		cells[i] = make([]map[symbol.Symbol]*Entry, n-i)
	}
	return &Chart{
		tokens: tokens,
		keys:   make([]string, n),
		cells:  cells,
	}
}

// Len returns the number of input tokens.
func (c *Chart) Len() int {
	return len(c.tokens)
}

func (c *Chart) Tokens() []string {
	return c.tokens
}

// Key returns the terminal the i-th token was matched as.
func (c *Chart) Key(i int) string {
	return c.keys[i]
}

// Cell returns the entries over the span [i, j). It returns nil for an empty cell or a span out of
// the chart.
func (c *Chart) Cell(i, j int) map[symbol.Symbol]*Entry {
	if i < 0 || j > len(c.tokens) || i >= j {
		return nil
	}
	return c.cells[i][j-i-1]
}

func (c *Chart) Lookup(i, j int, sym symbol.Symbol) (*Entry, bool) {
	cell := c.Cell(i, j)
	if cell == nil {
		return nil, false
	}
	e, ok := cell[sym]
	return e, ok
}

// Top returns the entry of the symbol over the whole input.
func (c *Chart) Top(sym symbol.Symbol) (*Entry, bool) {
	return c.Lookup(0, len(c.tokens), sym)
}

// engine fills charts with one grammar. Log probabilities of rules are computed once, so engines
// sharing a grammar never write to it.
type engine struct {
	g        *grammar.Grammar
	logProbs []float64
}

func newEngine(g *grammar.Grammar) *engine {
	rules := g.Rules()
	logProbs := make([]float64, len(rules))
	for _, r := range rules {
		logProbs[r.Num()] = math.Log(g.ConditionalProbability(r))
	}
	return &engine{
		g:        g,
		logProbs: logProbs,
	}
}

// Fill builds the chart of the tokens under the grammar. trace may be nil.
func Fill(g *grammar.Grammar, tokens []string, trace TraceFunc) *Chart {
	return newEngine(g).fill(tokens, trace)
}

func (e *engine) fill(tokens []string, trace TraceFunc) *Chart {
	c := newChart(tokens)
	f := &chartFiller{
		engine: e,
		chart:  c,
		trace:  trace,
	}
	f.fillLexicalRow()
	f.fillBinaryRows()
	return c
}

type chartFiller struct {
	*engine
	chart *Chart
	trace TraceFunc
}

// fillLexicalRow matches every token as itself when it was seen in training data and as the unknown
// marker otherwise. The terminal is recorded with score 1 so that binary rules can refer to it.
func (f *chartFiller) fillLexicalRow() {
	for i, tok := range f.chart.tokens {
		key := f.g.LookupKey(tok)
		f.chart.keys[i] = key
		term, ok := f.g.LookupTerminal(key)
		if !ok {
			continue
		}
		f.record(term, nil, i, i+1, NoSplit, 0)
		for _, r := range f.g.LexicalRules(term) {
			f.record(r.LHS, r, i, i+1, NoSplit, f.logProbs[r.Num()])
		}
	}
}

// fillBinaryRows visits spans by ascending length, then by ascending left edge, then by ascending
// split point, and tries binary rules in insertion order. Because an entry is replaced only by a
// strictly better one, the first derivation found wins a tie.
func (f *chartFiller) fillBinaryRows() {
	n := len(f.chart.tokens)
	rules := f.g.BinaryRules()
	if len(rules) == 0 {
		return
	}
	for l := 2; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			j := i + l
			for k := i + 1; k < j; k++ {
				left := f.chart.Cell(i, k)
				right := f.chart.Cell(k, j)
				if len(left) == 0 || len(right) == 0 {
					continue
				}
				for _, r := range rules {
					b, ok := left[r.RHS[0]]
					if !ok {
						continue
					}
					c, ok := right[r.RHS[1]]
					if !ok {
						continue
					}
					f.record(r.LHS, r, i, j, k, f.logProbs[r.Num()]+b.LogScore+c.LogScore)
				}
			}
		}
	}
}

func (f *chartFiller) record(sym symbol.Symbol, r *grammar.Rule, i, j, k int, logScore float64) {
	if math.IsInf(logScore, -1) || math.IsNaN(logScore) {
		return
	}
	cell := f.chart.cells[i][j-i-1]
	prev, ok := cell[sym]
	if ok && logScore <= prev.LogScore {
		return
	}
	if cell == nil {
		cell = map[symbol.Symbol]*Entry{}
		f.chart.cells[i][j-i-1] = cell
	}
	e := &Entry{
		Symbol:   sym,
		Rule:     r,
		Start:    i,
		End:      j,
		Split:    k,
		LogScore: logScore,
	}
	cell[sym] = e
	if f.trace != nil {
		f.trace(&ChartUpdate{
			Previous: prev,
			Entry:    e,
		})
	}
}
