package engine

import "errors"

var (
	// ErrStructuralBoard is returned by NewBoard when a layout breaks a board invariant
	ErrStructuralBoard = errors.New("structural board error")

	// ErrContradictoryProtection is returned when a protecting group is applied
	// while a different one is already active
	ErrContradictoryProtection = errors.New("contradictory protection")

	// ErrMalformedBoard is returned when a traversal returns to the laboratory
	// or exhausts a full circuit without an answer
	ErrMalformedBoard = errors.New("malformed board")
)
