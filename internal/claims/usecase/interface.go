// Package usecase defines business logic interfaces for claim management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// ClaimRepository defines persistence operations for claims and their status
// history.
type ClaimRepository interface {
	// Create stores a new claim and assigns the storage ID. Returns
	// ErrDuplicateClaimNumber when the claim number collides.
	Create(ctx context.Context, claim *claimsDomain.Claim) error

	// GetByExternalRef retrieves a claim by external reference, including
	// soft-deleted records. Returns ErrClaimNotFound if not found.
	GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.Claim, error)

	// GetByClaimNumber retrieves a claim by its claim number.
	GetByClaimNumber(ctx context.Context, claimNumber string) (*claimsDomain.Claim, error)

	// Update persists the claim's mutable columns.
	Update(ctx context.Context, claim *claimsDomain.Claim) error

	// List retrieves active claims, newest first, optionally filtered by status.
	List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]*claimsDomain.Claim, error)

	// ListByPatient retrieves a patient's active claims, newest first.
	ListByPatient(ctx context.Context, patientID int64) ([]*claimsDomain.Claim, error)

	// AddStatusHistory appends a status history entry.
	AddStatusHistory(ctx context.Context, entry *claimsDomain.ClaimStatusHistory) error

	// ListStatusHistory retrieves a claim's status history chronologically.
	ListStatusHistory(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimStatusHistory, error)
}

// DenialRepository defines persistence operations for claim denials.
type DenialRepository interface {
	Create(ctx context.Context, denial *claimsDomain.ClaimDenial) error
	GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.ClaimDenial, error)
	Update(ctx context.Context, denial *claimsDomain.ClaimDenial) error
	ListByClaim(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimDenial, error)
}

// PatientDirectory is the slice of patient persistence the claims module
// needs to resolve patient references.
type PatientDirectory interface {
	GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*patientsDomain.Patient, error)
}

// AuditEmitter is the slice of the audit trail the claims module needs.
type AuditEmitter interface {
	Emit(ctx context.Context, input *auditDomain.EmitEventInput) error
}

// ClaimUseCase defines business logic operations for claim management.
type ClaimUseCase interface {
	// Create registers a new claim in draft status for an active patient and
	// records a modification audit event.
	Create(ctx context.Context, input *claimsDomain.CreateClaimInput, meta auditDomain.RequestMeta) (map[string]any, error)

	// Get retrieves a claim view by external reference.
	Get(ctx context.Context, externalRef uuid.UUID) (map[string]any, error)

	// List returns views of active claims, optionally filtered by status.
	List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]map[string]any, error)

	// ListByPatient returns views of a patient's active claims.
	ListByPatient(ctx context.Context, patientRef uuid.UUID) ([]map[string]any, error)

	// Transition moves a claim to a new status, appending a history entry.
	// A transition to submitted is security critical: the audit event must
	// reach durable storage or the fallback channel, or the transition is
	// aborted.
	Transition(ctx context.Context, externalRef uuid.UUID, input *claimsDomain.TransitionClaimInput, meta auditDomain.RequestMeta) (map[string]any, error)

	// History returns a claim's status history in chronological order.
	History(ctx context.Context, externalRef uuid.UUID) ([]map[string]any, error)

	// AddDenial records a payer denial against a claim and moves the claim
	// to denied status when it is not already there.
	AddDenial(ctx context.Context, claimRef uuid.UUID, input *claimsDomain.CreateDenialInput, meta auditDomain.RequestMeta) (map[string]any, error)

	// ListDenials returns views of a claim's active denials.
	ListDenials(ctx context.Context, claimRef uuid.UUID) ([]map[string]any, error)

	// ResolveDenial marks a denial as resolved.
	ResolveDenial(ctx context.Context, denialRef uuid.UUID, notes string, meta auditDomain.RequestMeta) (map[string]any, error)
}
