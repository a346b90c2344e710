package domain

import (
	"errors"
	"fmt"

	"farmequip-backoffice/internal/listing"
)

var (
	// ErrNotFound: the operation targets an id absent from the record store.
	ErrNotFound = listing.ErrNotFound
	// ErrInvalidTransition: the current status does not permit the change.
	ErrInvalidTransition = listing.ErrInvalidTransition
	// ErrFetchFailure: a collaborator call failed or returned unsuccessfully.
	ErrFetchFailure = errors.New("fetch failure")

	ErrValidation   = errors.New("validation failed")
	ErrNotConfirmed = errors.New("action not confirmed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnmounted    = errors.New("screen is not mounted")
)

// FetchFailure wraps a collaborator error so that both ErrFetchFailure and
// the cause match errors.Is.
func FetchFailure(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFetchFailure, source, err)
}
