package rule

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
	synErrFieldCount     = newSyntaxError("a record must consist of four tab-separated fields: lhs, source, target, and probability")
	synErrNoLHS          = newSyntaxError("a record needs an LHS")
	synErrNoSource       = newSyntaxError("a record needs at least one source token")
	synErrNoTarget       = newSyntaxError("a record needs at least one target token")
	synErrInvalidProb    = newSyntaxError("a probability must be a number")
	synErrProbOutOfRange = newSyntaxError("a probability must be greater than 0 and less than or equal to 1")
)
