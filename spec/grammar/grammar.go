package grammar

// Grammar is the portable representation of a trained grammar.
type Grammar struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	UnknownMarker string   `json:"unknown_marker"`
	Markovized    bool     `json:"markovized"`
	Rules         []*Rule  `json:"rules"`
	WordsSeen     []string `json:"words_seen"`
}

// Rule is a rule in insertion order. RHS holds the symbol texts and Terminals tells which of them
// are terminals. Target is set only for synchronous rules; placeholders are written as `[n]`.
type Rule struct {
	LHS         string   `json:"lhs"`
	RHS         []string `json:"rhs"`
	Terminals   []bool   `json:"terminals"`
	Target      []string `json:"target,omitempty"`
	Count       int      `json:"count"`
	Probability float64  `json:"probability,omitempty"`
}
