package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/metrics"
)

// claimUseCaseWithMetrics decorates ClaimUseCase with metrics instrumentation.
type claimUseCaseWithMetrics struct {
	next    ClaimUseCase
	metrics metrics.BusinessMetrics
}

// NewClaimUseCaseWithMetrics wraps a ClaimUseCase with metrics recording.
func NewClaimUseCaseWithMetrics(useCase ClaimUseCase, m metrics.BusinessMetrics) ClaimUseCase {
	return &claimUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *claimUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "claims", operation, status)
	c.metrics.RecordDuration(ctx, "claims", operation, time.Since(start), status)
}

// Create records metrics for claim creation operations.
func (c *claimUseCaseWithMetrics) Create(
	ctx context.Context,
	input *claimsDomain.CreateClaimInput,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := c.next.Create(ctx, input, meta)
	c.record(ctx, "claim_create", start, err)
	return view, err
}

// Get records metrics for claim retrieval operations.
func (c *claimUseCaseWithMetrics) Get(ctx context.Context, externalRef uuid.UUID) (map[string]any, error) {
	start := time.Now()
	view, err := c.next.Get(ctx, externalRef)
	c.record(ctx, "claim_get", start, err)
	return view, err
}

// List records metrics for claim list operations.
func (c *claimUseCaseWithMetrics) List(
	ctx context.Context,
	status *claimsDomain.ClaimStatus,
	offset, limit int,
) ([]map[string]any, error) {
	start := time.Now()
	views, err := c.next.List(ctx, status, offset, limit)
	c.record(ctx, "claim_list", start, err)
	return views, err
}

// ListByPatient records metrics for patient claim list operations.
func (c *claimUseCaseWithMetrics) ListByPatient(ctx context.Context, patientRef uuid.UUID) ([]map[string]any, error) {
	start := time.Now()
	views, err := c.next.ListByPatient(ctx, patientRef)
	c.record(ctx, "claim_list_by_patient", start, err)
	return views, err
}

// Transition records metrics for claim status transitions.
func (c *claimUseCaseWithMetrics) Transition(
	ctx context.Context,
	externalRef uuid.UUID,
	input *claimsDomain.TransitionClaimInput,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := c.next.Transition(ctx, externalRef, input, meta)
	c.record(ctx, "claim_transition", start, err)
	return view, err
}

// History records metrics for status history retrievals.
func (c *claimUseCaseWithMetrics) History(ctx context.Context, externalRef uuid.UUID) ([]map[string]any, error) {
	start := time.Now()
	views, err := c.next.History(ctx, externalRef)
	c.record(ctx, "claim_history", start, err)
	return views, err
}

// AddDenial records metrics for denial creation operations.
func (c *claimUseCaseWithMetrics) AddDenial(
	ctx context.Context,
	claimRef uuid.UUID,
	input *claimsDomain.CreateDenialInput,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := c.next.AddDenial(ctx, claimRef, input, meta)
	c.record(ctx, "denial_create", start, err)
	return view, err
}

// ListDenials records metrics for denial list operations.
func (c *claimUseCaseWithMetrics) ListDenials(ctx context.Context, claimRef uuid.UUID) ([]map[string]any, error) {
	start := time.Now()
	views, err := c.next.ListDenials(ctx, claimRef)
	c.record(ctx, "denial_list", start, err)
	return views, err
}

// ResolveDenial records metrics for denial resolution operations.
func (c *claimUseCaseWithMetrics) ResolveDenial(
	ctx context.Context,
	denialRef uuid.UUID,
	notes string,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := c.next.ResolveDenial(ctx, denialRef, notes, meta)
	c.record(ctx, "denial_resolve", start, err)
	return view, err
}
