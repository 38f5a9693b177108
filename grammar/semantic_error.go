package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	// ErrEmptyGrammar means a conditional probability was requested for an LHS that owns no rule.
	// Every LHS of a registered rule owns at least that rule, so this is an internal consistency fault.
	ErrEmptyGrammar = newSemanticError("no rule is registered for the LHS")

	semErrInvalidPlaceholder = newSemanticError("a placeholder refers to a symbol that the source side doesn't have")
	semErrEmptySource        = newSemanticError("a rule needs at least one source symbol")
	semErrInvalidProbability = newSemanticError("a probability must be in (0, 1]")
	semErrInducerClosed      = newSemanticError("trees cannot be added after the grammar was smoothed")
	semErrUnknownKind        = newSemanticError("unknown grammar kind")
)
