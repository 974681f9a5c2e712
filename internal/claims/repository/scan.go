package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/errors"
)

// rowScanner abstracts sql.Row and sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// claimColumns is the full claim column list used by both drivers.
const claimColumns = `id, external_reference, claim_number, external_claim_id, patient_id,
	provider_id, facility_id, claim_type, status, priority,
	service_date_from, service_date_to,
	total_charges_cents, total_allowed_cents, total_paid_cents,
	total_patient_responsibility_cents, total_adjustments_cents,
	primary_insurance_id, secondary_insurance_id,
	submitted_date, submitted_by, clearinghouse, processed_date, paid_date,
	diagnosis_codes, place_of_service, claim_frequency, notes, special_instructions,
	created_at, updated_at, created_by, updated_by, is_active`

// encodeDiagnosisCodes serializes diagnosis codes for storage. An empty list
// stores NULL.
func encodeDiagnosisCodes(codes []string) (any, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(codes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode diagnosis codes")
	}
	return encoded, nil
}

func scanClaim(scanner rowScanner) (*domain.Claim, error) {
	var claim domain.Claim
	var claimType, status, priority string
	var serviceDateTo, submittedDate, processedDate, paidDate sql.NullTime
	var diagnosisCodes []byte

	err := scanner.Scan(
		&claim.ID,
		&claim.ExternalRef,
		&claim.ClaimNumber,
		&claim.ExternalClaimID,
		&claim.PatientID,
		&claim.ProviderID,
		&claim.FacilityID,
		&claimType,
		&status,
		&priority,
		&claim.ServiceDateFrom,
		&serviceDateTo,
		&claim.TotalChargesCents,
		&claim.TotalAllowedCents,
		&claim.TotalPaidCents,
		&claim.TotalPatientResponsibilityCents,
		&claim.TotalAdjustmentsCents,
		&claim.PrimaryInsuranceID,
		&claim.SecondaryInsuranceID,
		&submittedDate,
		&claim.SubmittedBy,
		&claim.Clearinghouse,
		&processedDate,
		&paidDate,
		&diagnosisCodes,
		&claim.PlaceOfService,
		&claim.ClaimFrequency,
		&claim.Notes,
		&claim.SpecialInstructions,
		&claim.CreatedAt,
		&claim.UpdatedAt,
		&claim.CreatedBy,
		&claim.UpdatedBy,
		&claim.IsActive,
	)
	if err != nil {
		return nil, err
	}

	claim.ClaimType = domain.ClaimType(claimType)
	claim.Status = domain.ClaimStatus(status)
	claim.Priority = domain.ClaimPriority(priority)
	if serviceDateTo.Valid {
		claim.ServiceDateTo = &serviceDateTo.Time
	}
	if submittedDate.Valid {
		claim.SubmittedDate = &submittedDate.Time
	}
	if processedDate.Valid {
		claim.ProcessedDate = &processedDate.Time
	}
	if paidDate.Valid {
		claim.PaidDate = &paidDate.Time
	}
	if len(diagnosisCodes) > 0 {
		if err := json.Unmarshal(diagnosisCodes, &claim.DiagnosisCodes); err != nil {
			return nil, errors.Wrap(err, "failed to decode diagnosis codes")
		}
	}

	return &claim, nil
}

func collectClaims(rows *sql.Rows) ([]*domain.Claim, error) {
	defer func() { _ = rows.Close() }()

	var claims []*domain.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan claim")
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate claims")
	}

	return claims, nil
}

// historyColumns is the status history column list.
const historyColumns = `id, claim_id, status, changed_at, changed_by, notes`

func scanHistory(scanner rowScanner) (*domain.ClaimStatusHistory, error) {
	var entry domain.ClaimStatusHistory
	var status string
	var changedAt time.Time

	err := scanner.Scan(
		&entry.ID,
		&entry.ClaimID,
		&status,
		&changedAt,
		&entry.ChangedBy,
		&entry.Notes,
	)
	if err != nil {
		return nil, err
	}

	entry.Status = domain.ClaimStatus(status)
	entry.ChangedAt = changedAt

	return &entry, nil
}

func collectHistory(rows *sql.Rows) ([]*domain.ClaimStatusHistory, error) {
	defer func() { _ = rows.Close() }()

	var entries []*domain.ClaimStatusHistory
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan status history")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate status history")
	}

	return entries, nil
}

// denialColumns is the denial column list.
const denialColumns = `id, external_reference, claim_id, denial_code, denial_description,
	denial_category, denied_amount_cents, denial_date, appeal_deadline,
	is_resolved, resolution_notes, resolved_date, resolved_by,
	appeal_filed, appeal_date, appeal_outcome,
	created_at, updated_at, created_by, updated_by, is_active`

func scanDenial(scanner rowScanner) (*domain.ClaimDenial, error) {
	var denial domain.ClaimDenial
	var category sql.NullString
	var appealDeadline, resolvedDate, appealDate sql.NullTime

	err := scanner.Scan(
		&denial.ID,
		&denial.ExternalRef,
		&denial.ClaimID,
		&denial.DenialCode,
		&denial.DenialDescription,
		&category,
		&denial.DeniedAmountCents,
		&denial.DenialDate,
		&appealDeadline,
		&denial.IsResolved,
		&denial.ResolutionNotes,
		&resolvedDate,
		&denial.ResolvedBy,
		&denial.AppealFiled,
		&appealDate,
		&denial.AppealOutcome,
		&denial.CreatedAt,
		&denial.UpdatedAt,
		&denial.CreatedBy,
		&denial.UpdatedBy,
		&denial.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		value := domain.DenialCategory(category.String)
		denial.DenialCategory = &value
	}
	if appealDeadline.Valid {
		denial.AppealDeadline = &appealDeadline.Time
	}
	if resolvedDate.Valid {
		denial.ResolvedDate = &resolvedDate.Time
	}
	if appealDate.Valid {
		denial.AppealDate = &appealDate.Time
	}

	return &denial, nil
}

func collectDenials(rows *sql.Rows) ([]*domain.ClaimDenial, error) {
	defer func() { _ = rows.Close() }()

	var denials []*domain.ClaimDenial
	for rows.Next() {
		denial, err := scanDenial(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan denial")
		}
		denials = append(denials, denial)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate denials")
	}

	return denials, nil
}

// enumValue converts an optional enum pointer to a driver value.
func enumValue[T ~string](value *T) any {
	if value == nil {
		return nil
	}
	return string(*value)
}
