package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/metrics"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// patientUseCaseWithMetrics decorates PatientUseCase with metrics instrumentation.
type patientUseCaseWithMetrics struct {
	next    PatientUseCase
	metrics metrics.BusinessMetrics
}

// NewPatientUseCaseWithMetrics wraps a PatientUseCase with metrics recording.
func NewPatientUseCaseWithMetrics(useCase PatientUseCase, m metrics.BusinessMetrics) PatientUseCase {
	return &patientUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for patient creation operations.
func (p *patientUseCaseWithMetrics) Create(
	ctx context.Context,
	input *patientsDomain.CreatePatientInput,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := p.next.Create(ctx, input, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "patient_create", status)
	p.metrics.RecordDuration(ctx, "patients", "patient_create", time.Since(start), status)

	return view, err
}

// Get records metrics for patient retrieval operations.
func (p *patientUseCaseWithMetrics) Get(
	ctx context.Context,
	externalRef uuid.UUID,
	includePHI bool,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := p.next.Get(ctx, externalRef, includePHI, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "patient_get", status)
	p.metrics.RecordDuration(ctx, "patients", "patient_get", time.Since(start), status)

	return view, err
}

// Update records metrics for patient update operations.
func (p *patientUseCaseWithMetrics) Update(
	ctx context.Context,
	externalRef uuid.UUID,
	updates map[string]any,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := p.next.Update(ctx, externalRef, updates, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "patient_update", status)
	p.metrics.RecordDuration(ctx, "patients", "patient_update", time.Since(start), status)

	return view, err
}

// Delete records metrics for patient deletion operations.
func (p *patientUseCaseWithMetrics) Delete(
	ctx context.Context,
	externalRef uuid.UUID,
	meta auditDomain.RequestMeta,
) error {
	start := time.Now()
	err := p.next.Delete(ctx, externalRef, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "patient_delete", status)
	p.metrics.RecordDuration(ctx, "patients", "patient_delete", time.Since(start), status)

	return err
}

// List records metrics for patient list operations.
func (p *patientUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]map[string]any, error) {
	start := time.Now()
	views, err := p.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "patient_list", status)
	p.metrics.RecordDuration(ctx, "patients", "patient_list", time.Since(start), status)

	return views, err
}

// AddInsurance records metrics for insurance creation operations.
func (p *patientUseCaseWithMetrics) AddInsurance(
	ctx context.Context,
	patientRef uuid.UUID,
	input *patientsDomain.CreateInsuranceInput,
	meta auditDomain.RequestMeta,
) (map[string]any, error) {
	start := time.Now()
	view, err := p.next.AddInsurance(ctx, patientRef, input, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "insurance_create", status)
	p.metrics.RecordDuration(ctx, "patients", "insurance_create", time.Since(start), status)

	return view, err
}

// ListInsurance records metrics for insurance list operations.
func (p *patientUseCaseWithMetrics) ListInsurance(
	ctx context.Context,
	patientRef uuid.UUID,
	includePHI bool,
	meta auditDomain.RequestMeta,
) ([]map[string]any, error) {
	start := time.Now()
	views, err := p.next.ListInsurance(ctx, patientRef, includePHI, meta)

	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "patients", "insurance_list", status)
	p.metrics.RecordDuration(ctx, "patients", "insurance_list", time.Since(start), status)

	return views, err
}
