package driver

import (
	"strings"
	"testing"

	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/rule"
	"github.com/nihei9/pcfg/spec/tree"
	"github.com/stretchr/testify/require"
)

func induce(t *testing.T, corpus string, opts ...grammar.Option) *grammar.Grammar {
	t.Helper()
	c, err := tree.ReadCorpus(strings.NewReader(corpus))
	require.NoError(t, err)
	require.Empty(t, c.Errors)
	g, err := grammar.Induce(c.Trees, opts...)
	require.NoError(t, err)
	return g
}

func newSynchronousGrammar(t *testing.T, table string) *grammar.Grammar {
	t.Helper()
	tab, err := rule.Read(strings.NewReader(table))
	require.NoError(t, err)
	require.Empty(t, tab.Errors)
	g, err := grammar.NewSynchronousGrammar(tab.Records)
	require.NoError(t, err)
	return g
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		caption string
		corpus  string
		opts    []grammar.Option
		src     string
		tree    string
		score   float64
	}{
		{
			caption: "unseen tokens are parsed as the unknown marker",
			corpus:  `(TOP (NP (unk)) (VP (unk)))`,
			src:     "a b",
			tree:    "(TOP (NP a) (VP b))",
			score:   0.125,
		},
		{
			caption: "seen tokens are parsed as themselves",
			corpus:  `(TOP (NP (unk)) (VP (unk)))`,
			src:     "unk unk",
			tree:    "(TOP (NP unk) (VP unk))",
			score:   0.125,
		},
		{
			caption: "a single unseen token is covered by a smoothing rule of the start symbol",
			corpus:  `(TOP (NP (unk)) (VP (unk)))`,
			src:     "a",
			tree:    "(TOP a)",
			score:   0.5,
		},
		{
			caption: "parent annotations are stripped",
			corpus: `
(S (NP (DT the) (NN dog)) (VP barks))
(S (NP (DT a) (NN cat)) (VP sleeps))
`,
			opts:  []grammar.Option{grammar.VerticalMarkovization()},
			src:   "a dog barks",
			tree:  "(S (NP (DT a) (NN dog)) (VP barks))",
			score: 2.0 / 3 * 2.0 / 3 * 1.0 / 3 * 1.0 / 3 * 1.0 / 3,
		},
		{
			caption: "terminals may appear in binary rules",
			corpus:  `(NP the (NN dog))`,
			src:     "the cat",
			tree:    "(NP the (NN cat))",
			score:   0.5 * 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := induce(t, tt.corpus, tt.opts...)
			start := "TOP"
			if !strings.HasPrefix(tt.tree, "(TOP") {
				start = strings.Fields(tt.tree)[0][1:]
			}
			p, err := NewParser(g, StartSymbol(start))
			require.NoError(t, err)
			res, err := p.ParseLine(tt.src)
			require.NoError(t, err)
			require.NotNil(t, res)
			require.Equal(t, tt.tree, res.String())
			require.Equal(t, strings.Fields(tt.src), res.Tokens)
			require.InDelta(t, tt.score, res.Score, 1e-12)
			require.False(t, res.Fallback)
			require.Empty(t, res.Translation)
		})
	}
}

func TestParser_TopEntry(t *testing.T) {
	g := induce(t, `(TOP (NP (unk)) (VP (unk)))`)
	p, err := NewParser(g)
	require.NoError(t, err)

	c := p.Chart([]string{"a", "b"})
	top, ok := g.LookupNonTerminal("TOP")
	require.True(t, ok)
	e, ok := c.Top(top)
	require.True(t, ok)
	require.Equal(t, 1, e.Split)
	require.Equal(t, 0, e.Start)
	require.Equal(t, 2, e.End)
	require.Equal(t, "TOP -> NP VP", g.RuleString(e.Rule))
	require.InDelta(t, 0.125, e.Score(), 1e-12)
}

func TestParser_NoParse(t *testing.T) {
	g := induce(t, `(TOP (A a) (B b))`)

	tests := []struct {
		caption string
		opts    []ParserOption
		src     string
	}{
		{
			caption: "the start symbol doesn't cover the input",
			src:     "b a",
		},
		{
			caption: "an empty line",
			src:     " \t",
		},
		{
			caption: "the start symbol is unknown to the grammar",
			opts:    []ParserOption{StartSymbol("S")},
			src:     "a b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(g, tt.opts...)
			require.NoError(t, err)
			res, err := p.ParseLine(tt.src)
			require.NoError(t, err)
			require.Nil(t, res)
		})
	}
}

func TestParser_Fallback(t *testing.T) {
	primary := induce(t, `(TOP (A a) (B b))`, grammar.VerticalMarkovization())
	fallback := induce(t, `(TOP (B b) (A a))`)

	p, err := NewParser(primary, Fallback(fallback))
	require.NoError(t, err)

	res, err := p.ParseLine("a b")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "(TOP (A a) (B b))", res.String())
	require.False(t, res.Fallback)

	res, err = p.ParseLine("b a")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "(TOP (B b) (A a))", res.String())
	require.True(t, res.Fallback)

	res, err = p.ParseLine("a a")
	require.NoError(t, err)
	require.Nil(t, res)

	sg := newSynchronousGrammar(t, "PHRASE\tw1 w2\t[1] [0]\t0.9\n")
	_, err = NewParser(primary, Fallback(sg))
	require.Error(t, err)
}

func TestParser_MaxLength(t *testing.T) {
	g := induce(t, `(TOP (NP (unk)) (VP (unk)))`)
	p, err := NewParser(g, MaxLength(2))
	require.NoError(t, err)

	res, err := p.ParseLine("a b")
	require.NoError(t, err)
	require.NotNil(t, res)

	res, err = p.ParseLine("a b c")
	require.ErrorIs(t, err, ErrInputTooLong)
	require.Nil(t, res)

	_, err = NewParser(g, MaxLength(-1))
	require.Error(t, err)
	_, err = NewParser(g, StartSymbol(""))
	require.Error(t, err)
}

func TestParser_UnknownTokenDeterminism(t *testing.T) {
	g := induce(t, `
(S (NP dogs) (VP bark))
(S (NP cats) (VP (V chase) (NP dogs)))
`)
	p, err := NewParser(g, StartSymbol("S"))
	require.NoError(t, err)

	var scores []float64
	var trees []string
	for _, src := range []string{"birds sing", "fish swim", "sing birds"} {
		res, err := p.ParseLine(src)
		require.NoError(t, err)
		require.NotNil(t, res)
		scores = append(scores, res.Score)
		trees = append(trees, res.String())

		c := p.Chart(strings.Fields(src))
		for i := 0; i < c.Len(); i++ {
			require.Equal(t, grammar.DefaultUnknownMarker, c.Key(i))
		}
	}
	require.Equal(t, scores[0], scores[1])
	require.Equal(t, scores[0], scores[2])
	require.Equal(t, "(S (NP birds) (VP sing))", trees[0])
	require.Equal(t, "(S (NP fish) (VP swim))", trees[1])

	// A seen token keeps its own entries whatever surrounds it.
	c1 := p.Chart([]string{"dogs", "sing"})
	c2 := p.Chart([]string{"dogs", "chase", "dogs"})
	require.Equal(t, "dogs", c1.Key(0))
	require.Equal(t, "dogs", c2.Key(2))
	require.Equal(t, len(c1.Cell(0, 1)), len(c2.Cell(2, 3)))
}

func TestParser_MarkovizationRoundTrip(t *testing.T) {
	corpus := `
(S (NP (DT the) (NN dog)) (VP (V chases) (NP (DT a) (NN cat))))
(S (NP (DT a) (NN cat)) (VP sleeps))
`
	markov := induce(t, corpus, grammar.VerticalMarkovization())
	plain := induce(t, corpus)

	pm, err := NewParser(markov, StartSymbol("S"))
	require.NoError(t, err)
	pp, err := NewParser(plain, StartSymbol("S"))
	require.NoError(t, err)

	for _, src := range []string{
		"the dog chases a cat",
		"a cat sleeps",
		"the cat sleeps",
	} {
		rm, err := pm.ParseLine(src)
		require.NoError(t, err)
		require.NotNil(t, rm)
		rp, err := pp.ParseLine(src)
		require.NoError(t, err)
		require.NotNil(t, rp)
		require.Equal(t, rp.String(), rm.String())
		require.NotContains(t, rm.String(), "[parent=")
	}
}

func TestParser_Translate(t *testing.T) {
	g := newSynchronousGrammar(t, "PHRASE\tw1 w2\t[1] [0]\t0.9\n")
	p, err := NewParser(g)
	require.NoError(t, err)

	tests := []struct {
		caption     string
		src         string
		translation string
		score       float64
	}{
		{
			caption:     "a rule reorders its children",
			src:         "w1 w2",
			translation: "w2 w1",
			score:       0.9,
		},
		{
			caption:     "the glue rule concatenates phrases",
			src:         "w1 w2 w1 w2",
			translation: "w2 w1 w2 w1",
			score:       0.9 * 0.9,
		},
		{
			caption:     "an unseen token falls back to an identity rule",
			src:         "zz",
			translation: "",
			score:       grammar.DefaultIdentityProbability,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res, err := p.ParseLine(tt.src)
			require.NoError(t, err)
			require.NotNil(t, res)
			require.Nil(t, res.Tree)
			require.Equal(t, tt.translation, res.Translation)
			require.Equal(t, tt.translation, res.String())
			require.InEpsilon(t, tt.score, res.Score, 1e-9)
		})
	}
}

func TestParser_TranslateWithLiterals(t *testing.T) {
	g := newSynchronousGrammar(t, strings.Join([]string{
		"PHRASE\tle PHRASE[1]\tthe [1]\t0.5",
		"PHRASE\tchat noir\t[1] [0] cat\t0.5",
	}, "\n"))
	p, err := NewParser(g)
	require.NoError(t, err)

	res, err := p.ParseLine("chat noir")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "noir chat cat", res.Translation)

	// A lexical rule contributes no text.
	res, err = p.ParseLine("le noir")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, "the", res.Translation)
	require.InEpsilon(t, 0.5*grammar.DefaultIdentityProbability, res.Score, 1e-9)
}
