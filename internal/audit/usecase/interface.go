// Package usecase defines business logic interfaces for the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
)

// AuditEventRepository defines persistence operations for audit events.
// Implementations must support transaction-aware operations via context
// propagation and must not expose any update path; events are append-only.
type AuditEventRepository interface {
	// Create stores a new audit event.
	Create(ctx context.Context, event *auditDomain.AuditEvent) error

	// Get retrieves an audit event by ID. Returns ErrEventNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEvent, error)

	// List retrieves audit events newest first with pagination and optional
	// inclusive time filters (nil means no filter).
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*auditDomain.AuditEvent, error)

	// ListByResource retrieves the audit timeline of one resource oldest first.
	ListByResource(ctx context.Context, resourceType, resourceID string, offset, limit int) ([]*auditDomain.AuditEvent, error)

	// DeleteOlderThan removes events created before olderThan. With dryRun it
	// only counts. Returns the affected (or would-be affected) row count.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// VerificationReport summarizes a batch signature verification run.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	// InvalidEvents lists the IDs of events whose signatures failed.
	InvalidEvents []uuid.UUID
}

// AuditEventUseCase defines business logic operations for the audit trail.
type AuditEventUseCase interface {
	// Emit records an audit event. Details are PHI-redacted and the event is
	// signed before persistence.
	//
	// For security-critical event types a primary store failure falls over to
	// the local fallback channel; if that also fails, Emit returns
	// ErrAuditEmission and the calling operation must fail. For other event
	// types a persistence failure is logged and swallowed so routine
	// operations are not blocked by audit storage hiccups.
	Emit(ctx context.Context, input *auditDomain.EmitEventInput) error

	// Get retrieves a single audit event by ID.
	Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEvent, error)

	// List retrieves audit events newest first with pagination and optional
	// inclusive time filters (nil means no filter). All timestamps in UTC.
	List(ctx context.Context, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*auditDomain.AuditEvent, error)

	// ListByResource retrieves one resource's audit timeline oldest first.
	ListByResource(ctx context.Context, resourceType, resourceID string, offset, limit int) ([]*auditDomain.AuditEvent, error)

	// DeleteOlderThan removes events older than the given number of days,
	// enforcing the compliance retention window. With dryRun it reports the
	// count without deleting.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)

	// Verify checks one event's signature. Returns ErrSignatureInvalid if the
	// event was altered after emission.
	Verify(ctx context.Context, id uuid.UUID) error

	// VerifyBatch checks the signatures of all events in [startTime, endTime]
	// and returns an aggregate report. Events without a signature are counted
	// as unsigned, not invalid.
	VerifyBatch(ctx context.Context, startTime, endTime time.Time) (*VerificationReport, error)
}
