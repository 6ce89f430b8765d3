package models

import "errors"

// Error taxonomy shared by the storage and service layers. Callers
// discriminate with errors.Is; layers add context with fmt.Errorf("%w").
var (
	// ErrValidation marks malformed or missing required input, such as a
	// non-positive price or an invoice submitted with zero valid lines.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that does not exist or is not
	// owned by the requesting seller.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a delete blocked by existing references.
	ErrConflict = errors.New("conflict")

	// ErrPersistence marks a failed atomic write; the whole operation has
	// been rolled back.
	ErrPersistence = errors.New("persistence failure")
)
