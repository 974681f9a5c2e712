// Package usecase implements business logic orchestration for the audit trail.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	auditService "github.com/allisson/medbilling/internal/audit/service"
	apperrors "github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/phi"
)

// auditEventUseCase implements AuditEventUseCase.
type auditEventUseCase struct {
	eventRepo AuditEventRepository
	signer    auditService.EventSigner
	fallback  auditService.FallbackWriter
	masterKey []byte
	logger    *slog.Logger
}

// Emit records an audit event. The details map passes through the PHI
// redaction filter first, so whatever callers put in it, the stored event is
// safe to surface in compliance exports. The event is signed before any
// persistence attempt so the fallback copy carries the same signature.
func (a *auditEventUseCase) Emit(ctx context.Context, input *auditDomain.EmitEventInput) error {
	if !input.EventType.Valid() {
		return auditDomain.ErrInvalidEventType
	}

	event := &auditDomain.AuditEvent{
		ID:           uuid.Must(uuid.NewV7()),
		EventType:    input.EventType,
		ActorID:      input.ActorID,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		Success:      input.Success,
		Details:      phi.Sanitize(input.Details),
		ClientIP:     input.ClientIP,
		ClientAgent:  input.ClientAgent,
		// Stored timestamps carry microsecond precision, so the signed
		// timestamp must match what comes back from the database.
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	signature, err := a.signer.Sign(a.masterKey, event)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit event")
	}
	event.Signature = signature

	if err := a.eventRepo.Create(ctx, event); err != nil {
		return a.handleEmitFailure(event, err)
	}

	return nil
}

// handleEmitFailure decides what a primary store failure means. Security
// critical events must land somewhere durable: they go to the fallback
// channel, and if that also fails the whole operation fails. Everything else
// is logged and dropped so audit storage trouble cannot take down routine
// billing work.
func (a *auditEventUseCase) handleEmitFailure(event *auditDomain.AuditEvent, cause error) error {
	if !event.EventType.SecurityCritical() {
		a.logger.Error("audit event dropped",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.EventType)),
			slog.String("error", cause.Error()),
		)
		return nil
	}

	if err := a.fallback.Write(event, cause); err != nil {
		a.logger.Error("audit fallback failed",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", string(event.EventType)),
			slog.String("error", err.Error()),
		)
		return apperrors.Wrap(apperrors.ErrAuditEmission, "primary store and fallback both failed")
	}

	a.logger.Warn("audit event written to fallback",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.EventType)),
		slog.String("error", cause.Error()),
	)
	return nil
}

// Get retrieves a single audit event by ID.
func (a *auditEventUseCase) Get(ctx context.Context, id uuid.UUID) (*auditDomain.AuditEvent, error) {
	event, err := a.eventRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get audit event")
	}
	return event, nil
}

// List retrieves audit events newest first with pagination and optional
// inclusive time filters (nil means no filter). All timestamps in UTC.
func (a *auditEventUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	events, err := a.eventRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	return events, nil
}

// ListByResource retrieves one resource's audit timeline oldest first.
func (a *auditEventUseCase) ListByResource(
	ctx context.Context,
	resourceType, resourceID string,
	offset, limit int,
) ([]*auditDomain.AuditEvent, error) {
	events, err := a.eventRepo.ListByResource(ctx, resourceType, resourceID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events by resource")
	}
	return events, nil
}

// DeleteOlderThan removes events older than the given number of days.
// With dryRun it reports the count without deleting.
func (a *auditEventUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	olderThan := time.Now().UTC().AddDate(0, 0, -days)

	count, err := a.eventRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit events")
	}

	return count, nil
}

// Verify checks one event's signature.
func (a *auditEventUseCase) Verify(ctx context.Context, id uuid.UUID) error {
	event, err := a.eventRepo.Get(ctx, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to get audit event")
	}

	return a.signer.Verify(a.masterKey, event)
}

// verifyBatchPageSize bounds memory while walking large time ranges.
const verifyBatchPageSize = 500

// VerifyBatch checks the signatures of all events in [startTime, endTime] and
// returns an aggregate report. Pages through the range so arbitrarily large
// windows stay bounded in memory.
func (a *auditEventUseCase) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*VerificationReport, error) {
	report := &VerificationReport{}
	offset := 0

	for {
		events, err := a.eventRepo.List(ctx, offset, verifyBatchPageSize, &startTime, &endTime)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit events for verification")
		}
		if len(events) == 0 {
			break
		}

		for _, event := range events {
			report.TotalChecked++

			if len(event.Signature) == 0 {
				report.UnsignedCount++
				continue
			}
			report.SignedCount++

			if err := a.signer.Verify(a.masterKey, event); err != nil {
				if apperrors.Is(err, auditDomain.ErrSignatureInvalid) {
					report.InvalidCount++
					report.InvalidEvents = append(report.InvalidEvents, event.ID)
					continue
				}
				return nil, apperrors.Wrap(err, "failed to verify audit event")
			}
			report.ValidCount++
		}

		offset += len(events)
	}

	return report, nil
}

// NewAuditEventUseCase creates a new AuditEventUseCase with the provided
// dependencies. The master key is used for signing key derivation only; the
// use case never encrypts with it directly.
func NewAuditEventUseCase(
	eventRepo AuditEventRepository,
	signer auditService.EventSigner,
	fallback auditService.FallbackWriter,
	masterKey []byte,
	logger *slog.Logger,
) AuditEventUseCase {
	return &auditEventUseCase{
		eventRepo: eventRepo,
		signer:    signer,
		fallback:  fallback,
		masterKey: masterKey,
		logger:    logger,
	}
}
