package domain

import "errors"

// Sentinel errors shared across the domain. Callers match them with errors.Is;
// services wrap them with fmt.Errorf("...: %w", ...) to add context.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateEntity is returned when adding an entity whose ID already
	// exists in the aggregate.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrDanglingReference is returned when a presentation references a room
	// or speaker that does not exist in the same conference.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrOutOfBounds is returned when a presentation's time window falls
	// outside the conference dates.
	ErrOutOfBounds = errors.New("outside conference dates")

	// ErrInvalidInput is returned when a request or constructor argument is invalid.
	ErrInvalidInput = errors.New("invalid input")
)
