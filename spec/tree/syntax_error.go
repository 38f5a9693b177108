package tree

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	synErrInvalidToken   = newSyntaxError("invalid token")
	synErrNoTree         = newSyntaxError("a tree must begin with an opening parenthesis")
	synErrUnclosedNode   = newSyntaxError("unclosed node")
	synErrEmptyNode      = newSyntaxError("a node needs a label")
	synErrNoLabel        = newSyntaxError("the first element of a node must be a label")
	synErrTrailingTokens = newSyntaxError("unexpected tokens after a tree")
)
