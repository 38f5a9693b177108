package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompiledLexSpec(t *testing.T) {
	s, err := compiledLexSpec()
	require.NoError(t, err)
	require.Equal(t, "tree", s.Name)
	for _, kind := range []string{"white_space", "l_paren", "r_paren", "label"} {
		found := false
		for _, name := range s.KindNames {
			if name.String() == kind {
				found = true
				break
			}
		}
		require.True(t, found, "kind %v is missing", kind)
	}
}

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		caption   string
		src       string
		rowOffset int
		tokens    []*token
	}{
		{
			caption: "parentheses and labels are separated by white spaces",
			src:     "(S\n  (NP a))",
			tokens: []*token{
				newSymbolToken(tokenKindLParen, newPosition(1, 1)),
				newLabelToken("S", newPosition(1, 2)),
				newSymbolToken(tokenKindLParen, newPosition(2, 3)),
				newLabelToken("NP", newPosition(2, 4)),
				newLabelToken("a", newPosition(2, 7)),
				newSymbolToken(tokenKindRParen, newPosition(2, 8)),
				newSymbolToken(tokenKindRParen, newPosition(2, 9)),
				newEOFToken(newPosition(1, 1)),
			},
		},
		{
			caption:   "rows are shifted by the offset",
			src:       "\t(X[parent=TOP] <unk>)",
			rowOffset: 2,
			tokens: []*token{
				newSymbolToken(tokenKindLParen, newPosition(3, 2)),
				newLabelToken("X[parent=TOP]", newPosition(3, 3)),
				newLabelToken("<unk>", newPosition(3, 17)),
				newSymbolToken(tokenKindRParen, newPosition(3, 22)),
				newEOFToken(newPosition(3, 1)),
			},
		},
		{
			caption: "an empty source yields only the end of input",
			src:     "  \n",
			tokens: []*token{
				newEOFToken(newPosition(1, 1)),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src), tt.rowOffset)
			require.NoError(t, err)
			for _, expected := range tt.tokens {
				tok, err := l.next()
				require.NoError(t, err)
				require.Equal(t, expected, tok)
			}
		})
	}
}
