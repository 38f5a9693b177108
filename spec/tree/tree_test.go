package tree

import (
	"strings"
	"testing"

	verr "github.com/nihei9/pcfg/error"
	"github.com/stretchr/testify/require"
)

func TestTree_String(t *testing.T) {
	tree := NewNonTerminalTree("S",
		NewNonTerminalTree("NP", NewLeaf("dogs")),
		NewNonTerminalTree("VP",
			NewNonTerminalTree("V", NewLeaf("bark")),
			NewNonTerminalTree("ADV", NewLeaf("loudly")),
		),
	).Fill()

	require.Equal(t, "(S (NP dogs) (VP (V bark) (ADV loudly)))", tree.String())
	require.Equal(t, `(S
    (NP dogs)
    (VP
        (V bark)
        (ADV loudly)))`, string(tree.Format()))
	require.Equal(t, []string{"dogs", "bark", "loudly"}, tree.Leaves())
}

func TestDiffTree(t *testing.T) {
	tests := []struct {
		caption  string
		expected string
		actual   string
		diffs    int
	}{
		{
			caption:  "equal trees",
			expected: `(S (NP a) (VP b))`,
			actual:   `(S (NP a) (VP b))`,
		},
		{
			caption:  "_ matches any label",
			expected: `(_ (NP _) (_ b))`,
			actual:   `(S (NP a) (VP b))`,
		},
		{
			caption:  "labels differ",
			expected: `(S (NP a) (VP b))`,
			actual:   `(S (VP a) (NP b))`,
			diffs:    2,
		},
		{
			caption:  "leaves differ",
			expected: `(S (NP a) (VP b))`,
			actual:   `(S (NP a) (VP c))`,
			diffs:    1,
		},
		{
			caption:  "the numbers of children differ",
			expected: `(S (NP a) (VP b))`,
			actual:   `(S (NP a b))`,
			diffs:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			expected, err := ParseString(tt.expected)
			require.NoError(t, err)
			actual, err := ParseString(tt.actual)
			require.NoError(t, err)
			diffs := DiffTree(expected, actual)
			require.Len(t, diffs, tt.diffs)
			for _, d := range diffs {
				require.NotEmpty(t, d.Message)
				require.NotEmpty(t, d.ExpectedPath)
				require.NotEmpty(t, d.ActualPath)
			}
		})
	}

	t.Run("a missing tree", func(t *testing.T) {
		tree, err := ParseString(`(S a)`)
		require.NoError(t, err)
		require.Empty(t, DiffTree(nil, nil))
		require.Len(t, DiffTree(tree, nil), 1)
		require.Len(t, DiffTree(nil, tree), 1)
	})
}

func TestParseTestCase(t *testing.T) {
	t.Run("a test case consists of three parts", func(t *testing.T) {
		src := `Dogs bark
---
dogs bark
---
(S
    (NP dogs)
    (VP bark))
`
		c, err := ParseTestCase(strings.NewReader(src))
		require.NoError(t, err)
		require.Equal(t, "Dogs bark", c.Description)
		require.Equal(t, []string{"dogs", "bark"}, c.Tokens())
		require.Equal(t, "(S (NP dogs) (VP bark))", c.Output.String())
	})

	t.Run("too few parts", func(t *testing.T) {
		src := `Dogs bark
---
dogs bark
`
		_, err := ParseTestCase(strings.NewReader(src))
		require.Error(t, err)
	})

	t.Run("errors in the tree part report rows in the whole test case", func(t *testing.T) {
		src := `Dogs bark
---
dogs bark
---
(S (NP dogs)
`
		_, err := ParseTestCase(strings.NewReader(src))
		require.ErrorIs(t, err, synErrUnclosedNode)
		specErr, ok := err.(*verr.SpecError)
		require.True(t, ok)
		require.Equal(t, 5, specErr.Row)
	})
}
