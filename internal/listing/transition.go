package listing

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTransition is returned when the current state does not permit
// the requested change.
var ErrInvalidTransition = errors.New("invalid status transition")

// Transitions is a guarded state machine over a string-like status type.
type Transitions[S ~string] map[S][]S

// Allows reports whether from → to is an edge.
func (t Transitions[S]) Allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Check returns a wrapped ErrInvalidTransition unless from → to is an edge.
func (t Transitions[S]) Check(from, to S) error {
	if t.Allows(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
