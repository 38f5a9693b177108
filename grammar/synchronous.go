package grammar

import (
	"fmt"
	"regexp"
	"strconv"

	verr "github.com/nihei9/pcfg/error"
	"github.com/nihei9/pcfg/spec/rule"
)

var (
	reIndexSuffix = regexp.MustCompile(`^(.+)\[[0-9]+\]$`)
	rePlaceholder = regexp.MustCompile(`\[([0-9]+)\]`)
)

// NewSynchronousGrammar builds a synchronous grammar from rule-table records. Probabilities of the
// records are used literally.
//
// Besides the records, the grammar gets the glue rule `PHRASE -> PHRASE PHRASE` emitting both
// children in order, and one identity rule `PHRASE -> w` for every source word w and for the unknown
// marker, weighted with the identity probability.
func NewSynchronousGrammar(recs []*rule.Record, opts ...Option) (*Grammar, error) {
	c := newBuildConfig(opts)
	if c.identityProb <= 0 || c.identityProb > 1 {
		return nil, fmt.Errorf("%w: identity probability %v", semErrInvalidProbability, c.identityProb)
	}

	g := newGrammar(KindSynchronous, c.unknown)

	var errs verr.SpecErrors
	for _, rec := range recs {
		if len(rec.Source) == 0 {
			errs = append(errs, &verr.SpecError{
				Cause: semErrEmptySource,
				Row:   rec.Row,
			})
			continue
		}
		if rec.Probability <= 0 || rec.Probability > 1 {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrInvalidProbability,
				Detail: strconv.FormatFloat(rec.Probability, 'g', -1, 64),
				Row:    rec.Row,
			})
			continue
		}

		rhs := make([]Element, len(rec.Source))
		var words []string
		for i, tok := range rec.Source {
			if m := reIndexSuffix.FindStringSubmatch(tok); m != nil {
				rhs[i] = NonTerminal(m[1])
				continue
			}
			rhs[i] = Terminal(tok)
			words = append(words, tok)
		}
		target, err := parseTarget(rec.Target, len(rhs))
		if err != nil {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrInvalidPlaceholder,
				Detail: err.Error(),
				Row:    rec.Row,
			})
			continue
		}

		if _, err := g.addSynchronousRule(rec.LHS, rhs, target, rec.Probability); err != nil {
			return nil, err
		}
		for _, w := range words {
			g.AddWord(w)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if c.glue {
		_, err := g.addSynchronousRule(c.phrase, []Element{NonTerminal(c.phrase), NonTerminal(c.phrase)}, []TargetElement{
			{Text: "[0]", Child: 0},
			{Text: "[1]", Child: 1},
		}, 1)
		if err != nil {
			return nil, err
		}
	}

	identities := make([]string, 0, len(g.wordOrder)+1)
	identities = append(identities, g.wordOrder...)
	if !g.IsKnownWord(c.unknown) {
		identities = append(identities, c.unknown)
	}
	for _, w := range identities {
		_, err := g.addSynchronousRule(c.phrase, []Element{Terminal(w)}, []TargetElement{
			{Text: w, Child: -1},
		}, c.identityProb)
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

// addSynchronousRule registers a rule with its target side. When an equal rule (the same LHS and
// source side) is already registered, only its count is incremented; the first target side and
// probability stay in effect.
func (g *Grammar) addSynchronousRule(lhs string, rhs []Element, target []TargetElement, prob float64) (*Rule, error) {
	r, err := g.internRule(lhs, rhs)
	if err != nil {
		return nil, err
	}
	r.Target = target
	r.Probability = prob
	return g.addRule(r), nil
}

// parseTarget converts target tokens into a template. A token containing `[n]` is a placeholder for
// the n-th source symbol.
func parseTarget(toks []string, rhsLen int) ([]TargetElement, error) {
	target := make([]TargetElement, len(toks))
	for i, tok := range toks {
		m := rePlaceholder.FindStringSubmatch(tok)
		if m == nil {
			target[i] = TargetElement{
				Text:  tok,
				Child: -1,
			}
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, err
		}
		if n >= rhsLen {
			return nil, fmt.Errorf("%v refers to the symbol %v but the source side has %v symbols", tok, n, rhsLen)
		}
		target[i] = TargetElement{
			Text:  tok,
			Child: n,
		}
	}
	return target, nil
}
