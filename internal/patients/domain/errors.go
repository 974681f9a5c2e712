package domain

import (
	"github.com/allisson/medbilling/internal/errors"
)

// Patient module errors.
var (
	// ErrPatientNotFound indicates a patient with the specified reference was not found.
	ErrPatientNotFound = errors.Wrap(errors.ErrNotFound, "patient not found")

	// ErrInsuranceNotFound indicates an insurance policy with the specified reference was not found.
	ErrInsuranceNotFound = errors.Wrap(errors.ErrNotFound, "insurance policy not found")

	// ErrDuplicateMRN indicates the generated medical record number already exists.
	ErrDuplicateMRN = errors.Wrap(errors.ErrConflict, "medical record number already exists")
)
