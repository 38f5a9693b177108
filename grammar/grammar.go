package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/pcfg/grammar/symbol"
)

type Kind string

const (
	// KindInduced is a probabilistic context-free grammar whose probabilities are relative frequencies
	// of rule counts.
	KindInduced = Kind("pcfg")

	// KindSynchronous is a synchronous grammar whose rules carry a target-side template and a literal
	// probability.
	KindSynchronous = Kind("synchronous")
)

func (k Kind) String() string {
	return string(k)
}

const (
	DefaultUnknownMarker = "<unk>"
	DefaultPhraseSymbol  = "PHRASE"

	// DefaultIdentityProbability is far below any probability estimated from data so that identity
	// rules are used only when nothing else covers a span.
	DefaultIdentityProbability = 1e-10
)

// Element is an RHS symbol before it is interned.
type Element struct {
	Text     string
	Terminal bool
}

func NonTerminal(text string) Element {
	return Element{
		Text: text,
	}
}

func Terminal(text string) Element {
	return Element{
		Text:     text,
		Terminal: true,
	}
}

// Grammar maps each LHS to the distinct rules sharing it. A grammar is mutated only while it is being
// built; after that, parsers share it read-only.
type Grammar struct {
	kind       Kind
	unknown    string
	markovized bool

	symbolTable *symbol.SymbolTable
	rules       []*Rule
	id2Rule     map[ruleID]*Rule
	lhs2Rules   map[symbol.Symbol][]*Rule
	bases       []symbol.Symbol

	// totals holds the sum of counts of the rules sharing an LHS. It is updated by every insertion,
	// so probabilities never see a stale denominator.
	totals map[symbol.Symbol]int

	words     map[string]struct{}
	wordOrder []string

	lexicalRules map[symbol.Symbol][]*Rule
	binaryRules  []*Rule
}

// NewGrammar returns an empty induced grammar.
func NewGrammar(opts ...Option) *Grammar {
	c := newBuildConfig(opts)
	g := newGrammar(KindInduced, c.unknown)
	g.markovized = c.markovize
	return g
}

func newGrammar(kind Kind, unknown string) *Grammar {
	return &Grammar{
		kind:         kind,
		unknown:      unknown,
		symbolTable:  symbol.NewSymbolTable(),
		id2Rule:      map[ruleID]*Rule{},
		lhs2Rules:    map[symbol.Symbol][]*Rule{},
		totals:       map[symbol.Symbol]int{},
		words:        map[string]struct{}{},
		lexicalRules: map[symbol.Symbol][]*Rule{},
	}
}

func (g *Grammar) Kind() Kind {
	return g.kind
}

func (g *Grammar) UnknownMarker() string {
	return g.unknown
}

// IsMarkovized reports whether non-terminal labels carry a parent annotation.
func (g *Grammar) IsMarkovized() bool {
	return g.markovized
}

// AddRule registers lhs -> rhs. When an equal rule is already registered, its count is incremented
// instead. It returns the registered rule.
func (g *Grammar) AddRule(lhs string, rhs ...Element) (*Rule, error) {
	r, err := g.internRule(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return g.addRule(r), nil
}

func (g *Grammar) internRule(lhs string, rhs []Element) (*Rule, error) {
	w := g.symbolTable.Writer()
	lhsSym, err := w.RegisterNonTerminalSymbol(lhs)
	if err != nil {
		return nil, err
	}
	rhsSyms := make([]symbol.Symbol, len(rhs))
	for i, e := range rhs {
		var sym symbol.Symbol
		var err error
		if e.Terminal {
			sym, err = w.RegisterTerminalSymbol(e.Text)
		} else {
			sym, err = w.RegisterNonTerminalSymbol(e.Text)
		}
		if err != nil {
			return nil, err
		}
		rhsSyms[i] = sym
	}
	return newRule(lhsSym, rhsSyms)
}

func (g *Grammar) addRule(r *Rule) *Rule {
	if known, ok := g.id2Rule[r.id]; ok {
		known.Count += r.Count
		g.totals[known.LHS] += r.Count
		return known
	}

	r.num = len(g.rules)
	g.rules = append(g.rules, r)
	g.id2Rule[r.id] = r
	if rules, ok := g.lhs2Rules[r.LHS]; ok {
		g.lhs2Rules[r.LHS] = append(rules, r)
	} else {
		g.lhs2Rules[r.LHS] = []*Rule{r}
		g.bases = append(g.bases, r.LHS)
	}
	g.totals[r.LHS] += r.Count

	switch {
	case r.IsLexical():
		g.lexicalRules[r.RHS[0]] = append(g.lexicalRules[r.RHS[0]], r)
	case r.IsBinary():
		g.binaryRules = append(g.binaryRules, r)
	}

	return r
}

// AddWord records a terminal token observed in training data.
func (g *Grammar) AddWord(word string) {
	if _, ok := g.words[word]; ok {
		return
	}
	g.words[word] = struct{}{}
	g.wordOrder = append(g.wordOrder, word)
}

// ConditionalProbability returns P(rhs | lhs) of the rule. For an induced grammar it is the count of
// the rule divided by the total count of the rules sharing its LHS; for a synchronous grammar it is
// the literal probability of the rule.
//
// It panics with ErrEmptyGrammar when the LHS owns no rule.
func (g *Grammar) ConditionalProbability(r *Rule) float64 {
	if g.kind == KindSynchronous {
		return r.Probability
	}
	total := g.totals[r.LHS]
	if total <= 0 {
		panic(fmt.Errorf("%w: %v", ErrEmptyGrammar, g.SymbolText(r.LHS)))
	}
	return float64(r.Count) / float64(total)
}

// Rules returns all rules in insertion order.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Bases returns the distinct LHS symbols in insertion order.
func (g *Grammar) Bases() []symbol.Symbol {
	return g.bases
}

func (g *Grammar) RulesByLHS(lhs symbol.Symbol) []*Rule {
	return g.lhs2Rules[lhs]
}

// LexicalRules returns the rules rewriting into the terminal in insertion order.
func (g *Grammar) LexicalRules(term symbol.Symbol) []*Rule {
	return g.lexicalRules[term]
}

// BinaryRules returns the rules having two RHS symbols in insertion order.
func (g *Grammar) BinaryRules() []*Rule {
	return g.binaryRules
}

// WordsSeen returns the observed terminal tokens in sorted order.
func (g *Grammar) WordsSeen() []string {
	words := make([]string, len(g.wordOrder))
	copy(words, g.wordOrder)
	sort.Strings(words)
	return words
}

func (g *Grammar) IsKnownWord(word string) bool {
	_, ok := g.words[word]
	return ok
}

// LookupKey returns the terminal a token is matched as: the token itself when it was observed in
// training data, the unknown marker otherwise.
func (g *Grammar) LookupKey(token string) string {
	if g.IsKnownWord(token) {
		return token
	}
	return g.unknown
}

func (g *Grammar) LookupTerminal(text string) (symbol.Symbol, bool) {
	return g.symbolTable.Reader().ToTerminal(text)
}

func (g *Grammar) LookupNonTerminal(text string) (symbol.Symbol, bool) {
	return g.symbolTable.Reader().ToNonTerminal(text)
}

func (g *Grammar) SymbolText(sym symbol.Symbol) string {
	text, _ := g.symbolTable.Reader().ToText(sym)
	return text
}

// RuleString returns a readable representation of the rule, such as `NP -> DT NN`.
func (g *Grammar) RuleString(r *Rule) string {
	s := g.SymbolText(r.LHS) + " ->"
	for _, sym := range r.RHS {
		s += " " + g.SymbolText(sym)
	}
	if len(r.Target) > 0 {
		s += " |"
		for _, e := range r.Target {
			if e.IsPlaceholder() {
				s += fmt.Sprintf(" [%v]", e.Child)
			} else {
				s += " " + e.Text
			}
		}
	}
	return s
}
