package domain

import (
	"github.com/allisson/medbilling/internal/errors"
)

// Audit trail errors.
var (
	// ErrEventNotFound indicates an audit event with the specified ID was not found.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "audit event not found")

	// ErrInvalidEventType indicates an event type outside the declared set.
	ErrInvalidEventType = errors.Wrap(errors.ErrInvalidInput, "invalid audit event type")

	// ErrSignatureInvalid indicates an audit event signature failed verification,
	// meaning the event was tampered with after emission.
	ErrSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "audit event signature invalid")
)
