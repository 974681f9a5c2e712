package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	"github.com/allisson/medbilling/internal/crypto/service"
	"github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
	"github.com/allisson/medbilling/internal/record"
)

// mrnAttempts bounds the retry loop when a generated medical record number
// collides with an existing one.
const mrnAttempts = 5

type patientUseCase struct {
	patientRepo   PatientRepository
	insuranceRepo InsuranceRepository
	audit         AuditEmitter
	codec         *service.FieldCodec
}

func (p *patientUseCase) Create(ctx context.Context, input *patientsDomain.CreatePatientInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	patient, err := p.buildPatient(input, meta.ActorID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		patient.MedicalRecordNumber = patientsDomain.NewMedicalRecordNumber(time.Now().UTC())
		err = p.patientRepo.Create(ctx, patient)
		if err == nil {
			break
		}
		if errors.Is(err, patientsDomain.ErrDuplicateMRN) && attempt < mrnAttempts-1 {
			continue
		}
		return nil, err
	}

	if err := p.emit(ctx, meta, auditDomain.EventModification, patientsDomain.ResourceType, patient.ExternalRef, true, map[string]any{
		"operation":             "create",
		"medical_record_number": patient.MedicalRecordNumber,
	}); err != nil {
		return nil, err
	}

	return patient.ExternalView(p.codec, false)
}

func (p *patientUseCase) Get(ctx context.Context, externalRef uuid.UUID, includePHI bool, meta auditDomain.RequestMeta) (map[string]any, error) {
	patient, err := p.patientRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	view, err := patient.ExternalView(p.codec, includePHI)
	if err != nil {
		if emitErr := p.emit(ctx, meta, auditDomain.EventAccess, patientsDomain.ResourceType, externalRef, false, map[string]any{
			"reason": "decryption failure",
		}); emitErr != nil {
			return nil, emitErr
		}
		return nil, err
	}

	if includePHI {
		if err := p.emit(ctx, meta, auditDomain.EventAccess, patientsDomain.ResourceType, externalRef, true, map[string]any{
			"phi_disclosed": true,
		}); err != nil {
			return nil, err
		}
	}

	return view, nil
}

func (p *patientUseCase) Update(ctx context.Context, externalRef uuid.UUID, updates map[string]any, meta auditDomain.RequestMeta) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no attributes to update")
	}

	patient, err := p.patientRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	if !patient.IsActive {
		return nil, patientsDomain.ErrPatientNotFound
	}

	if err := patient.ApplyUpdate(p.codec, updates, meta.ActorID); err != nil {
		return nil, err
	}

	if err := p.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	if err := p.emit(ctx, meta, auditDomain.EventModification, patientsDomain.ResourceType, externalRef, true, map[string]any{
		"operation":      "update",
		"updated_fields": updatedFieldNames(updates),
	}); err != nil {
		return nil, err
	}

	return patient.ExternalView(p.codec, false)
}

func (p *patientUseCase) Delete(ctx context.Context, externalRef uuid.UUID, meta auditDomain.RequestMeta) error {
	patient, err := p.patientRepo.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return err
	}
	if !patient.IsActive {
		return nil
	}

	// Deletion is security critical, so the event is recorded before the
	// row changes. If the trail cannot be written the deletion is aborted.
	if err := p.emit(ctx, meta, auditDomain.EventDeletion, patientsDomain.ResourceType, externalRef, true, map[string]any{
		"operation":             "soft_delete",
		"medical_record_number": patient.MedicalRecordNumber,
	}); err != nil {
		return err
	}

	patient.SoftDelete(meta.ActorID)
	return p.patientRepo.Update(ctx, patient)
}

func (p *patientUseCase) List(ctx context.Context, offset, limit int) ([]map[string]any, error) {
	patients, err := p.patientRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(patients))
	for _, patient := range patients {
		view, err := patient.ExternalView(p.codec, false)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *patientUseCase) AddInsurance(ctx context.Context, patientRef uuid.UUID, input *patientsDomain.CreateInsuranceInput, meta auditDomain.RequestMeta) (map[string]any, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	patient, err := p.patientRepo.GetByExternalRef(ctx, patientRef)
	if err != nil {
		return nil, err
	}
	if !patient.IsActive {
		return nil, patientsDomain.ErrPatientNotFound
	}

	policy, err := p.buildInsurance(patient.ID, input, meta.ActorID)
	if err != nil {
		return nil, err
	}

	if err := p.insuranceRepo.Create(ctx, policy); err != nil {
		return nil, err
	}

	if err := p.emit(ctx, meta, auditDomain.EventModification, patientsDomain.InsuranceResourceType, policy.ExternalRef, true, map[string]any{
		"operation":      "create",
		"patient_ref":    patientRef.String(),
		"insurance_type": string(policy.InsuranceType),
	}); err != nil {
		return nil, err
	}

	return policy.ExternalView(p.codec, false)
}

func (p *patientUseCase) ListInsurance(ctx context.Context, patientRef uuid.UUID, includePHI bool, meta auditDomain.RequestMeta) ([]map[string]any, error) {
	patient, err := p.patientRepo.GetByExternalRef(ctx, patientRef)
	if err != nil {
		return nil, err
	}

	policies, err := p.insuranceRepo.ListByPatient(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, 0, len(policies))
	for _, policy := range policies {
		view, err := policy.ExternalView(p.codec, includePHI)
		if err != nil {
			if emitErr := p.emit(ctx, meta, auditDomain.EventAccess, patientsDomain.InsuranceResourceType, policy.ExternalRef, false, map[string]any{
				"reason": "decryption failure",
			}); emitErr != nil {
				return nil, emitErr
			}
			return nil, err
		}
		views = append(views, view)
	}

	if includePHI {
		if err := p.emit(ctx, meta, auditDomain.EventAccess, patientsDomain.InsuranceResourceType, patientRef, true, map[string]any{
			"phi_disclosed": true,
			"policy_count":  len(policies),
		}); err != nil {
			return nil, err
		}
	}

	return views, nil
}

func (p *patientUseCase) emit(ctx context.Context, meta auditDomain.RequestMeta, eventType auditDomain.EventType, resourceType string, resourceRef uuid.UUID, success bool, details map[string]any) error {
	return p.audit.Emit(ctx, &auditDomain.EmitEventInput{
		EventType:    eventType,
		ActorID:      meta.ActorID,
		ResourceType: resourceType,
		ResourceID:   resourceRef.String(),
		Success:      success,
		Details:      details,
		ClientIP:     meta.ClientIP,
		ClientAgent:  meta.ClientAgent,
	})
}

func (p *patientUseCase) buildPatient(input *patientsDomain.CreatePatientInput, actor *string) (*patientsDomain.Patient, error) {
	patient := &patientsDomain.Patient{
		Record:                 record.New(actor),
		PreferredLanguage:      optionalString(input.PreferredLanguage),
		PreferredCommunication: input.PreferredCommunication,
		AllowSMS:               input.AllowSMS,
		AllowEmail:             input.AllowEmail,
		FinancialClass:         optionalString(input.FinancialClass),
	}
	if patient.PreferredCommunication == "" {
		patient.PreferredCommunication = "phone"
	}
	if input.Gender != "" {
		gender := patientsDomain.Gender(input.Gender)
		patient.Gender = &gender
	}
	if input.MaritalStatus != "" {
		maritalStatus := patientsDomain.MaritalStatus(input.MaritalStatus)
		patient.MaritalStatus = &maritalStatus
	}

	phiValues := map[string]string{
		"first_name":             input.FirstName,
		"last_name":              input.LastName,
		"middle_name":            input.MiddleName,
		"social_security_number": input.SocialSecurityNumber,
		"date_of_birth":          input.DateOfBirth,
		"phone":                  input.Phone,
		"email":                  input.Email,
		"emergency_contact":      input.EmergencyContact,
		"emergency_phone":        input.EmergencyPhone,
		"address_line_1":         input.AddressLine1,
		"address_line_2":         input.AddressLine2,
		"city":                   input.City,
		"state":                  input.State,
		"zip_code":               input.ZipCode,
		"country":                input.Country,
	}
	for name, value := range phiValues {
		if value == "" {
			continue
		}
		if err := patient.SetAttribute(p.codec, name, value); err != nil {
			return nil, err
		}
	}

	return patient, nil
}

func (p *patientUseCase) buildInsurance(patientID int64, input *patientsDomain.CreateInsuranceInput, actor *string) (*patientsDomain.PatientInsurance, error) {
	policy := &patientsDomain.PatientInsurance{
		Record:                record.New(actor),
		PatientID:             patientID,
		InsuranceType:         patientsDomain.InsuranceType(input.InsuranceType),
		PayerName:             input.PayerName,
		PayerID:               optionalString(input.PayerID),
		RelationshipToPatient: optionalString(input.RelationshipToPatient),
		IsPrimary:             input.IsPrimary,
	}

	if input.EffectiveDate != "" {
		effectiveDate, err := parseDate(input.EffectiveDate)
		if err != nil {
			return nil, err
		}
		policy.EffectiveDate = &effectiveDate
	}
	if input.TerminationDate != "" {
		terminationDate, err := parseDate(input.TerminationDate)
		if err != nil {
			return nil, err
		}
		policy.TerminationDate = &terminationDate
	}

	phiValues := map[string]string{
		"policy_number":      input.PolicyNumber,
		"group_number":       input.GroupNumber,
		"subscriber_id":      input.SubscriberID,
		"policy_holder_name": input.PolicyHolderName,
		"policy_holder_dob":  input.PolicyHolderDOB,
		"policy_holder_ssn":  input.PolicyHolderSSN,
	}
	for name, value := range phiValues {
		if value == "" {
			continue
		}
		if err := policy.SetAttribute(p.codec, name, value); err != nil {
			return nil, err
		}
	}

	return policy, nil
}

func updatedFieldNames(updates map[string]any) []string {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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

// NewPatientUseCase returns a PatientUseCase backed by the given repositories.
func NewPatientUseCase(patientRepo PatientRepository, insuranceRepo InsuranceRepository, audit AuditEmitter, codec *service.FieldCodec) PatientUseCase {
	return &patientUseCase{
		patientRepo:   patientRepo,
		insuranceRepo: insuranceRepo,
		audit:         audit,
		codec:         codec,
	}
}
