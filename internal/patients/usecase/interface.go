// Package usecase defines business logic interfaces for patient management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// PatientRepository defines persistence operations for patients.
// Implementations must support transaction-aware operations via context propagation.
type PatientRepository interface {
	// Create stores a new patient and assigns the storage ID.
	// Returns ErrDuplicateMRN when the medical record number collides.
	Create(ctx context.Context, patient *patientsDomain.Patient) error

	// GetByExternalRef retrieves a patient by external reference, including
	// soft-deleted records. Returns ErrPatientNotFound if not found.
	GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*patientsDomain.Patient, error)

	// GetByMRN retrieves a patient by medical record number.
	GetByMRN(ctx context.Context, mrn string) (*patientsDomain.Patient, error)

	// Update persists the patient's mutable columns.
	Update(ctx context.Context, patient *patientsDomain.Patient) error

	// List retrieves active patients ordered by newest first.
	List(ctx context.Context, offset, limit int) ([]*patientsDomain.Patient, error)
}

// InsuranceRepository defines persistence operations for insurance policies.
type InsuranceRepository interface {
	Create(ctx context.Context, policy *patientsDomain.PatientInsurance) error
	GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*patientsDomain.PatientInsurance, error)
	Update(ctx context.Context, policy *patientsDomain.PatientInsurance) error
	ListByPatient(ctx context.Context, patientID int64) ([]*patientsDomain.PatientInsurance, error)
}

// AuditEmitter is the slice of the audit trail the patient module needs.
type AuditEmitter interface {
	Emit(ctx context.Context, input *auditDomain.EmitEventInput) error
}

// PatientUseCase defines business logic operations for patient management.
//
// Read operations return external views rather than entities: the decision
// whether a view discloses PHI is made here, next to the audit emission, so
// no handler can fetch plaintext without the access being recorded.
type PatientUseCase interface {
	// Create registers a new patient, encrypting all identifying attributes
	// before persistence, and records a modification audit event. Returns the
	// redacted external view.
	Create(ctx context.Context, input *patientsDomain.CreatePatientInput, meta auditDomain.RequestMeta) (map[string]any, error)

	// Get retrieves a patient view. With includePHI true the encrypted
	// attributes are disclosed and an access audit event is recorded; the
	// operation fails if that event cannot be recorded. A decryption failure
	// records a failed access event whose details never contain ciphertext
	// or key material.
	Get(ctx context.Context, externalRef uuid.UUID, includePHI bool, meta auditDomain.RequestMeta) (map[string]any, error)

	// Update applies a partial attribute update and records a modification
	// event listing the updated field names (names only, never values).
	Update(ctx context.Context, externalRef uuid.UUID, updates map[string]any, meta auditDomain.RequestMeta) (map[string]any, error)

	// Delete soft-deletes a patient and records a deletion event. The record
	// stays retrievable for the retention window. Deleting an already
	// inactive patient is a no-op.
	Delete(ctx context.Context, externalRef uuid.UUID, meta auditDomain.RequestMeta) error

	// List returns redacted views of active patients. Listings never
	// disclose PHI.
	List(ctx context.Context, offset, limit int) ([]map[string]any, error)

	// AddInsurance attaches an insurance policy to a patient and records a
	// modification event against the patient.
	AddInsurance(ctx context.Context, patientRef uuid.UUID, input *patientsDomain.CreateInsuranceInput, meta auditDomain.RequestMeta) (map[string]any, error)

	// ListInsurance returns views of a patient's active policies.
	ListInsurance(ctx context.Context, patientRef uuid.UUID, includePHI bool, meta auditDomain.RequestMeta) ([]map[string]any, error)
}
