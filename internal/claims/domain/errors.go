package domain

import (
	"github.com/allisson/medbilling/internal/errors"
)

var (
	// ErrClaimNotFound indicates a claim with the specified reference was not found.
	ErrClaimNotFound = errors.Wrap(errors.ErrNotFound, "claim not found")

	// ErrDenialNotFound indicates a denial with the specified reference was not found.
	ErrDenialNotFound = errors.Wrap(errors.ErrNotFound, "claim denial not found")

	// ErrDuplicateClaimNumber indicates the generated claim number already exists.
	ErrDuplicateClaimNumber = errors.Wrap(errors.ErrConflict, "claim number already exists")

	// ErrInvalidStatusTransition indicates the requested status change is not
	// allowed from the claim's current status.
	ErrInvalidStatusTransition = errors.Wrap(errors.ErrInvalidInput, "invalid claim status transition")

	// ErrDenialAlreadyResolved indicates the denial was resolved previously.
	ErrDenialAlreadyResolved = errors.Wrap(errors.ErrConflict, "denial is already resolved")
)
