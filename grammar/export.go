package grammar

import (
	"fmt"

	spec "github.com/nihei9/pcfg/spec/grammar"
)

// Export converts the grammar into its portable representation.
func (g *Grammar) Export(name string) *spec.Grammar {
	rules := make([]*spec.Rule, len(g.rules))
	for i, r := range g.rules {
		rhs := make([]string, len(r.RHS))
		terms := make([]bool, len(r.RHS))
		for j, sym := range r.RHS {
			rhs[j] = g.SymbolText(sym)
			terms[j] = sym.IsTerminal()
		}
		var target []string
		if len(r.Target) > 0 {
			target = make([]string, len(r.Target))
			for j, e := range r.Target {
				target[j] = e.Text
			}
		}
		rules[i] = &spec.Rule{
			LHS:         g.SymbolText(r.LHS),
			RHS:         rhs,
			Terminals:   terms,
			Target:      target,
			Count:       r.Count,
			Probability: r.Probability,
		}
	}

	return &spec.Grammar{
		Name:          name,
		Kind:          g.kind.String(),
		UnknownMarker: g.unknown,
		Markovized:    g.markovized,
		Rules:         rules,
		WordsSeen:     append([]string{}, g.wordOrder...),
	}
}

// Import restores a grammar from its portable representation.
func Import(sg *spec.Grammar) (*Grammar, error) {
	var kind Kind
	switch Kind(sg.Kind) {
	case KindInduced:
		kind = KindInduced
	case KindSynchronous:
		kind = KindSynchronous
	default:
		return nil, fmt.Errorf("%w: %v", semErrUnknownKind, sg.Kind)
	}

	unknown := sg.UnknownMarker
	if unknown == "" {
		unknown = DefaultUnknownMarker
	}
	g := newGrammar(kind, unknown)
	g.markovized = sg.Markovized

	for i, sr := range sg.Rules {
		if len(sr.RHS) == 0 || len(sr.RHS) != len(sr.Terminals) {
			return nil, fmt.Errorf("rule #%v: RHS and terminal flags are mismatched", i+1)
		}
		if sr.Count < 1 {
			return nil, fmt.Errorf("rule #%v: a count must be greater than or equal to 1: %v", i+1, sr.Count)
		}
		rhs := make([]Element, len(sr.RHS))
		for j, text := range sr.RHS {
			rhs[j] = Element{
				Text:     text,
				Terminal: sr.Terminals[j],
			}
		}
		r, err := g.internRule(sr.LHS, rhs)
		if err != nil {
			return nil, fmt.Errorf("rule #%v: %w", i+1, err)
		}
		r.Count = sr.Count
		if kind == KindSynchronous {
			if sr.Probability <= 0 || sr.Probability > 1 {
				return nil, fmt.Errorf("rule #%v: %w: %v", i+1, semErrInvalidProbability, sr.Probability)
			}
			target, err := parseTarget(sr.Target, len(rhs))
			if err != nil {
				return nil, fmt.Errorf("rule #%v: %w: %v", i+1, semErrInvalidPlaceholder, err)
			}
			r.Target = target
			r.Probability = sr.Probability
		}
		g.addRule(r)
	}
	for _, w := range sg.WordsSeen {
		g.AddWord(w)
	}

	return g, nil
}

// Describe summarizes the grammar.
func (g *Grammar) Describe(name string) *spec.Description {
	rules := make([]*spec.RuleDescription, len(g.rules))
	for i, r := range g.rules {
		rules[i] = &spec.RuleDescription{
			Number:      r.num,
			Text:        g.RuleString(r),
			LHS:         g.SymbolText(r.LHS),
			Count:       r.Count,
			Probability: g.ConditionalProbability(r),
		}
	}
	tab := g.symbolTable.Reader()
	return &spec.Description{
		Name:             name,
		Kind:             g.kind.String(),
		Markovized:       g.markovized,
		RuleCount:        len(g.rules),
		BaseCount:        len(g.bases),
		WordCount:        len(g.wordOrder),
		NonTerminalCount: len(tab.NonTerminalSymbols()),
		TerminalCount:    len(tab.TerminalSymbols()),
		NonTerminals:     tab.NonTerminalTexts()[1:],
		Terminals:        tab.TerminalTexts()[1:],
		Rules:            rules,
	}
}
