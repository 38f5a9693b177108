package grammar

import (
	"crypto/sha256"
	"fmt"

	"github.com/nihei9/pcfg/grammar/symbol"
)

type ruleID [32]byte

// genRuleID hashes the LHS and the (source-side) RHS. The target side of a synchronous rule doesn't
// take part in the identity.
func genRuleID(lhs symbol.Symbol, rhs []symbol.Symbol) ruleID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return ruleID(sha256.Sum256(seq))
}

// TargetElement is one token of a target-side template. Child is the index of the RHS symbol whose
// output replaces the token, or -1 when the token is emitted literally.
type TargetElement struct {
	Text  string
	Child int
}

func (e TargetElement) IsPlaceholder() bool {
	return e.Child >= 0
}

// Rule is a weighted rewrite rule. Count is the number of times the rule was observed; synchronous
// rules carry a literal Probability instead.
type Rule struct {
	id  ruleID
	num int

	LHS         symbol.Symbol
	RHS         []symbol.Symbol
	Target      []TargetElement
	Count       int
	Probability float64
}

func newRule(lhs symbol.Symbol, rhs []symbol.Symbol) (*Rule, error) {
	if lhs.IsNil() || !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if len(rhs) == 0 {
		return nil, fmt.Errorf("RHS must have at least one symbol; LHS: %v", lhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Rule{
		id:    genRuleID(lhs, rhs),
		LHS:   lhs,
		RHS:   rhs,
		Count: 1,
	}, nil
}

// Num returns the insertion number of the rule. The chart visits rules in this order.
func (r *Rule) Num() int {
	return r.num
}

func (r *Rule) IsUnary() bool {
	return len(r.RHS) == 1
}

func (r *Rule) IsBinary() bool {
	return len(r.RHS) == 2
}

// IsLexical reports whether the rule rewrites its LHS into a single terminal.
func (r *Rule) IsLexical() bool {
	return r.IsUnary() && r.RHS[0].IsTerminal()
}
