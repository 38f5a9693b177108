package grammar

// Description summarizes a grammar for people.
type Description struct {
	Name             string             `json:"name"`
	Kind             string             `json:"kind"`
	Markovized       bool               `json:"markovized"`
	RuleCount        int                `json:"rule_count"`
	BaseCount        int                `json:"base_count"`
	WordCount        int                `json:"word_count"`
	NonTerminalCount int                `json:"non_terminal_count"`
	TerminalCount    int                `json:"terminal_count"`
	NonTerminals     []string           `json:"non_terminals"`
	Terminals        []string           `json:"terminals"`
	Rules            []*RuleDescription `json:"rules"`
}

type RuleDescription struct {
	Number      int     `json:"number"`
	Text        string  `json:"text"`
	LHS         string  `json:"lhs"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
}
