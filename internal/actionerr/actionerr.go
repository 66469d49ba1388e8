// Package actionerr defines the closed set of player-input error kinds
// every ActionResult reports. It is
// its own small package, rather than living in internal/game, so that
// internal/betting and internal/table can return the same typed errors the
// engine surfaces without an import cycle back into internal/game.
package actionerr

// Kind is the closed enumeration of action error kinds.
type Kind string

const (
	NotYourTurn         Kind = "NotYourTurn"
	ActionNotLegal      Kind = "ActionNotLegal"
	AmountOutOfRange    Kind = "AmountOutOfRange"
	IllegalCardSelection Kind = "IllegalCardSelection"
	NoDeclaration       Kind = "NoDeclaration"
	AmbiguousDeclaration Kind = "AmbiguousDeclaration"
	InsufficientChips   Kind = "InsufficientChips"
)

// Error wraps a Kind with a human-readable explanation. All action errors
// leave engine state unchanged — returning one must never be paired
// with a mutation.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Reason
}

// New constructs an *Error. Kept as a function (not a literal) so call
// sites read as a sentence: actionerr.New(actionerr.AmountOutOfRange, "...").
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}
