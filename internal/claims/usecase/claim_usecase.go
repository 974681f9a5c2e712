package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/database"
	"github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
	"github.com/allisson/medbilling/internal/record"
)

// claimNumberAttempts bounds the retry loop when a generated claim number
// collides with an existing one.
const claimNumberAttempts = 5

type claimUseCase struct {
	claimRepo  ClaimRepository
	denialRepo DenialRepository
	patients   PatientDirectory
	audit      AuditEmitter
	txManager  database.TxManager
}

func (c *claimUseCase) Create(ctx context.Context, input *claimsDomain.CreateClaimInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	patientRef, err := uuid.Parse(input.PatientRef)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "patient reference must be a UUID")
	}

	patient, err := c.patients.GetByExternalRef(ctx, patientRef)
	if err != nil {
		return nil, err
	}
	if !patient.IsActive {
		return nil, patientsDomain.ErrPatientNotFound
	}

	claim, err := c.buildClaim(patient.ID, input, meta.ActorID)
	if err != nil {
		return nil, err
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		for attempt := 0; ; attempt++ {
			claim.ClaimNumber = claimsDomain.NewClaimNumber(time.Now().UTC())
			err := c.claimRepo.Create(ctx, claim)
			if err == nil {
				break
			}
			if errors.Is(err, claimsDomain.ErrDuplicateClaimNumber) && attempt < claimNumberAttempts-1 {
				continue
			}
			return err
		}

		return c.claimRepo.AddStatusHistory(ctx, &claimsDomain.ClaimStatusHistory{
			ClaimID:   claim.ID,
			Status:    claim.Status,
			ChangedAt: claim.CreatedAt,
			ChangedBy: meta.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := c.emit(ctx, meta, auditDomain.EventModification, claim.ExternalRef, true, map[string]any{
		"operation":    "create",
		"claim_number": claim.ClaimNumber,
		"claim_type":   string(claim.ClaimType),
	}); err != nil {
		return nil, err
	}

	return claim.ExternalView(time.Now().UTC()), nil
}

func (c *claimUseCase) Get(ctx context.Context, externalRef uuid.UUID) (map[string]any, error) {
	claim, err := c.claimRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	return claim.ExternalView(time.Now().UTC()), nil
}

func (c *claimUseCase) List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]map[string]any, error) {
	claims, err := c.claimRepo.List(ctx, status, offset, limit)
	if err != nil {
		return nil, err
	}
	return claimViews(claims), nil
}

func (c *claimUseCase) ListByPatient(ctx context.Context, patientRef uuid.UUID) ([]map[string]any, error) {
	patient, err := c.patients.GetByExternalRef(ctx, patientRef)
	if err != nil {
		return nil, err
	}

	claims, err := c.claimRepo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	return claimViews(claims), nil
}

func (c *claimUseCase) Transition(ctx context.Context, externalRef uuid.UUID, input *claimsDomain.TransitionClaimInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	claim, err := c.claimRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	if !claim.IsActive {
		return nil, claimsDomain.ErrClaimNotFound
	}

	target := claimsDomain.ClaimStatus(input.Status)
	previous := claim.Status

	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}

	entry, err := claim.Transition(target, notes, meta.ActorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	eventType := auditDomain.EventModification
	if target == claimsDomain.StatusSubmitted {
		eventType = auditDomain.EventSubmission
	}
	details := map[string]any{
		"operation":    "status_transition",
		"claim_number": claim.ClaimNumber,
		"from_status":  string(previous),
		"to_status":    string(target),
	}

	// Submission is security critical, so the event is recorded before the
	// claim changes. If the trail cannot be written the transition is aborted.
	if err := c.emit(ctx, meta, eventType, claim.ExternalRef, true, details); err != nil {
		return nil, err
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.claimRepo.Update(ctx, claim); err != nil {
			return err
		}
		return c.claimRepo.AddStatusHistory(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return claim.ExternalView(time.Now().UTC()), nil
}

func (c *claimUseCase) History(ctx context.Context, externalRef uuid.UUID) ([]map[string]any, error) {
	claim, err := c.claimRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	entries, err := c.claimRepo.ListStatusHistory(ctx, claim.ID)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entry.View())
	}
	return views, nil
}

func (c *claimUseCase) AddDenial(ctx context.Context, claimRef uuid.UUID, input *claimsDomain.CreateDenialInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	claim, err := c.claimRepo.GetByExternalRef(ctx, claimRef)
	if err != nil {
		return nil, err
	}
	if !claim.IsActive {
		return nil, claimsDomain.ErrClaimNotFound
	}

	denial, err := buildDenial(claim.ID, input, meta.ActorID)
	if err != nil {
		return nil, err
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := c.denialRepo.Create(ctx, denial); err != nil {
			return err
		}

		if claim.Status == claimsDomain.StatusDenied {
			return nil
		}
		if !claim.Status.CanTransitionTo(claimsDomain.StatusDenied) {
			return nil
		}

		entry, err := claim.Transition(claimsDomain.StatusDenied, nil, meta.ActorID, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := c.claimRepo.Update(ctx, claim); err != nil {
			return err
		}
		return c.claimRepo.AddStatusHistory(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if err := c.emit(ctx, meta, auditDomain.EventModification, claim.ExternalRef, true, map[string]any{
		"operation":    "denial_recorded",
		"claim_number": claim.ClaimNumber,
		"denial_code":  denial.DenialCode,
	}); err != nil {
		return nil, err
	}

	return denial.View(time.Now().UTC()), nil
}

func (c *claimUseCase) ListDenials(ctx context.Context, claimRef uuid.UUID) ([]map[string]any, error) {
	claim, err := c.claimRepo.GetByExternalRef(ctx, claimRef)
	if err != nil {
		return nil, err
	}

	denials, err := c.denialRepo.ListByClaim(ctx, claim.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	views := make([]map[string]any, 0, len(denials))
	for _, denial := range denials {
		views = append(views, denial.View(now))
	}
	return views, nil
}

func (c *claimUseCase) ResolveDenial(ctx context.Context, denialRef uuid.UUID, notes string, meta auditDomain.RequestMeta) (map[string]any, error) {
	denial, err := c.denialRepo.GetByExternalRef(ctx, denialRef)
	if err != nil {
		return nil, err
	}
	if denial.IsResolved {
		return nil, claimsDomain.ErrDenialAlreadyResolved
	}

	var resolutionNotes *string
	if notes != "" {
		resolutionNotes = &notes
	}
	denial.Resolve(resolutionNotes, meta.ActorID, time.Now().UTC())

	if err := c.denialRepo.Update(ctx, denial); err != nil {
		return nil, err
	}

	if err := c.emit(ctx, meta, auditDomain.EventModification, denial.ExternalRef, true, map[string]any{
		"operation":   "denial_resolved",
		"denial_code": denial.DenialCode,
	}); err != nil {
		return nil, err
	}

	return denial.View(time.Now().UTC()), nil
}

func (c *claimUseCase) emit(ctx context.Context, meta auditDomain.RequestMeta, eventType auditDomain.EventType, resourceRef uuid.UUID, success bool, details map[string]any) error {
	return c.audit.Emit(ctx, &auditDomain.EmitEventInput{
		EventType:    eventType,
		ActorID:      meta.ActorID,
		ResourceType: claimsDomain.ResourceType,
		ResourceID:   resourceRef.String(),
		Success:      success,
		Details:      details,
		ClientIP:     meta.ClientIP,
		ClientAgent:  meta.ClientAgent,
	})
}

func (c *claimUseCase) buildClaim(patientID int64, input *claimsDomain.CreateClaimInput, actor *string) (*claimsDomain.Claim, error) {
	serviceDateFrom, err := parseDate(input.ServiceDateFrom)
	if err != nil {
		return nil, err
	}

	claim := &claimsDomain.Claim{
		Record:            record.New(actor),
		PatientID:         patientID,
		ProviderID:        optionalString(input.ProviderID),
		FacilityID:        optionalString(input.FacilityID),
		ClaimType:         claimsDomain.ClaimType(input.ClaimType),
		Status:            claimsDomain.StatusDraft,
		Priority:          claimsDomain.PriorityRoutine,
		ServiceDateFrom:   serviceDateFrom,
		TotalChargesCents: input.TotalChargesCents,
		DiagnosisCodes:    input.DiagnosisCodes,
		PlaceOfService:    optionalString(input.PlaceOfService),
		ClaimFrequency:    optionalString(input.ClaimFrequency),
		Notes:             optionalString(input.Notes),
	}
	claim.SpecialInstructions = optionalString(input.SpecialInstructions)
	if input.Priority != "" {
		claim.Priority = claimsDomain.ClaimPriority(input.Priority)
	}
	if input.ServiceDateTo != "" {
		serviceDateTo, err := parseDate(input.ServiceDateTo)
		if err != nil {
			return nil, err
		}
		claim.ServiceDateTo = &serviceDateTo
	}

	return claim, nil
}

func buildDenial(claimID int64, input *claimsDomain.CreateDenialInput, actor *string) (*claimsDomain.ClaimDenial, error) {
	denialDate, err := parseDate(input.DenialDate)
	if err != nil {
		return nil, err
	}

	denial := &claimsDomain.ClaimDenial{
		Record:            record.New(actor),
		ClaimID:           claimID,
		DenialCode:        input.DenialCode,
		DenialDescription: optionalString(input.DenialDescription),
		DeniedAmountCents: input.DeniedAmountCents,
		DenialDate:        denialDate,
	}
	if input.DenialCategory != "" {
		category := claimsDomain.DenialCategory(input.DenialCategory)
		denial.DenialCategory = &category
	}
	if input.AppealDeadline != "" {
		deadline, err := parseDate(input.AppealDeadline)
		if err != nil {
			return nil, err
		}
		denial.AppealDeadline = &deadline
	}

	return denial, nil
}

func claimViews(claims []*claimsDomain.Claim) []map[string]any {
	now := time.Now().UTC()
	views := make([]map[string]any, 0, len(claims))
	for _, claim := range claims {
		views = append(views, claim.ExternalView(now))
	}
	return views
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrInvalidInput, "invalid date format, expected YYYY-MM-DD")
	}
	return parsed.UTC(), nil
}

// NewClaimUseCase returns a ClaimUseCase backed by the given repositories.
func NewClaimUseCase(
	claimRepo ClaimRepository,
	denialRepo DenialRepository,
	patients PatientDirectory,
	audit AuditEmitter,
	txManager database.TxManager,
) ClaimUseCase {
	return &claimUseCase{
		claimRepo:  claimRepo,
		denialRepo: denialRepo,
		patients:   patients,
		audit:      audit,
		txManager:  txManager,
	}
}
