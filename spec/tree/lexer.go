package tree

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindLParen  = tokenKind("(")
	tokenKindRParen  = tokenKind(")")
	tokenKindLabel   = tokenKind("label")
	tokenKindEOF     = tokenKind("eof")
	tokenKindInvalid = tokenKind("invalid")
)

const (
	lexKindWhiteSpace = mlspec.LexKindName("white_space")
	lexKindLParen     = mlspec.LexKindName("l_paren")
	lexKindRParen     = mlspec.LexKindName("r_paren")
	lexKindLabel      = mlspec.LexKindName("label")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newLabelToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindLabel,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

var (
	lexSpecOnce sync.Once
	lexSpec     *mlspec.CompiledLexSpec
	lexSpecErr  error
)

// compiledLexSpec compiles the lexical specification of the bracketed tree notation. Parentheses
// delimit nodes and every other run of non-space characters is a label.
func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	lexSpecOnce.Do(func() {
		src := &mlspec.LexSpec{
			Name:    "tree",
			Entries: []*mlspec.LexEntry{
				{
					Kind:    lexKindWhiteSpace,
					Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
				},
				{
					Kind:    lexKindLParen,
					Pattern: `\u{0028}`,
				},
				{
					Kind:    lexKindRParen,
					Pattern: `\u{0029}`,
				},
				{
					Kind:    lexKindLabel,
					Pattern: `[^\u{0009}\u{000A}\u{000D}\u{0020}\u{0028}\u{0029}]+`,
				},
			},
		}
		s, err, cErrs := mlcompiler.Compile(src, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cerr.Kind, cerr.Cause)
				}
				lexSpecErr = fmt.Errorf("cannot compile the lexical specification of trees: %v", b.String())
				return
			}
			lexSpecErr = err
			return
		}
		lexSpec = s
	})
	return lexSpec, lexSpecErr
}

type lexer struct {
	s         *mlspec.CompiledLexSpec
	d         *mldriver.Lexer
	rowOffset int
}

func newLexer(src io.Reader, rowOffset int) (*lexer, error) {
	s, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s:         s,
		d:         d,
		rowOffset: rowOffset,
	}, nil
}

func (l *lexer) next() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), l.position(tok)), nil
		}
		if tok.EOF {
			return newEOFToken(l.position(tok)), nil
		}
		if l.kindName(tok) == lexKindWhiteSpace {
			continue
		}

		break
	}

	switch l.kindName(tok) {
	case lexKindLParen:
		return newSymbolToken(tokenKindLParen, l.position(tok)), nil
	case lexKindRParen:
		return newSymbolToken(tokenKindRParen, l.position(tok)), nil
	case lexKindLabel:
		return newLabelToken(string(tok.Lexeme), l.position(tok)), nil
	default:
		return newInvalidToken(string(tok.Lexeme), l.position(tok)), nil
	}
}

func (l *lexer) kindName(tok *mldriver.Token) mlspec.LexKindName {
	return l.s.KindNames[tok.KindID]
}

func (l *lexer) position(tok *mldriver.Token) Position {
	return newPosition(l.rowOffset+tok.Row+1, tok.Col+1)
}
