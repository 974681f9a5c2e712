// Package repository implements claim persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgreSQLClaimRepository implements Claim persistence for PostgreSQL.
type PostgreSQLClaimRepository struct {
	db *sql.DB
}

// Create inserts a new claim and assigns the storage ID. A duplicate claim
// number maps to ErrDuplicateClaimNumber so callers can regenerate.
func (r *PostgreSQLClaimRepository) Create(ctx context.Context, claim *claimsDomain.Claim) error {
	querier := database.GetTx(ctx, r.db)

	diagnosisCodes, err := encodeDiagnosisCodes(claim.DiagnosisCodes)
	if err != nil {
		return err
	}

	query := `INSERT INTO claims (external_reference, claim_number, external_claim_id, patient_id,
		provider_id, facility_id, claim_type, status, priority,
		service_date_from, service_date_to,
		total_charges_cents, total_allowed_cents, total_paid_cents,
		total_patient_responsibility_cents, total_adjustments_cents,
		primary_insurance_id, secondary_insurance_id,
		submitted_date, submitted_by, clearinghouse, processed_date, paid_date,
		diagnosis_codes, place_of_service, claim_frequency, notes, special_instructions,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33)
		RETURNING id`

	err = querier.QueryRowContext(
		ctx,
		query,
		claim.ExternalRef,
		claim.ClaimNumber,
		claim.ExternalClaimID,
		claim.PatientID,
		claim.ProviderID,
		claim.FacilityID,
		string(claim.ClaimType),
		string(claim.Status),
		string(claim.Priority),
		claim.ServiceDateFrom,
		claim.ServiceDateTo,
		claim.TotalChargesCents,
		claim.TotalAllowedCents,
		claim.TotalPaidCents,
		claim.TotalPatientResponsibilityCents,
		claim.TotalAdjustmentsCents,
		claim.PrimaryInsuranceID,
		claim.SecondaryInsuranceID,
		claim.SubmittedDate,
		claim.SubmittedBy,
		claim.Clearinghouse,
		claim.ProcessedDate,
		claim.PaidDate,
		diagnosisCodes,
		claim.PlaceOfService,
		claim.ClaimFrequency,
		claim.Notes,
		claim.SpecialInstructions,
		claim.CreatedAt,
		claim.UpdatedAt,
		claim.CreatedBy,
		claim.UpdatedBy,
		claim.IsActive,
	).Scan(&claim.ID)
	if err != nil {
		var pqErr *pq.Error
		if apperrors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return claimsDomain.ErrDuplicateClaimNumber
		}
		return apperrors.Wrap(err, "failed to create claim")
	}

	return nil
}

// GetByExternalRef retrieves a claim by external reference, including
// soft-deleted records.
func (r *PostgreSQLClaimRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims WHERE external_reference = $1`

	claim, err := scanClaim(querier.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, claimsDomain.ErrClaimNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get claim")
	}

	return claim, nil
}

// GetByClaimNumber retrieves a claim by its claim number.
func (r *PostgreSQLClaimRepository) GetByClaimNumber(ctx context.Context, claimNumber string) (*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims WHERE claim_number = $1`

	claim, err := scanClaim(querier.QueryRowContext(ctx, query, claimNumber))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, claimsDomain.ErrClaimNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get claim by number")
	}

	return claim, nil
}

// Update persists the claim's mutable columns.
func (r *PostgreSQLClaimRepository) Update(ctx context.Context, claim *claimsDomain.Claim) error {
	querier := database.GetTx(ctx, r.db)

	diagnosisCodes, err := encodeDiagnosisCodes(claim.DiagnosisCodes)
	if err != nil {
		return err
	}

	query := `UPDATE claims SET
		external_claim_id = $1, provider_id = $2, facility_id = $3,
		claim_type = $4, status = $5, priority = $6,
		service_date_from = $7, service_date_to = $8,
		total_charges_cents = $9, total_allowed_cents = $10, total_paid_cents = $11,
		total_patient_responsibility_cents = $12, total_adjustments_cents = $13,
		primary_insurance_id = $14, secondary_insurance_id = $15,
		submitted_date = $16, submitted_by = $17, clearinghouse = $18,
		processed_date = $19, paid_date = $20,
		diagnosis_codes = $21, place_of_service = $22, claim_frequency = $23,
		notes = $24, special_instructions = $25,
		updated_at = $26, updated_by = $27, is_active = $28
		WHERE id = $29`

	result, err := querier.ExecContext(
		ctx,
		query,
		claim.ExternalClaimID,
		claim.ProviderID,
		claim.FacilityID,
		string(claim.ClaimType),
		string(claim.Status),
		string(claim.Priority),
		claim.ServiceDateFrom,
		claim.ServiceDateTo,
		claim.TotalChargesCents,
		claim.TotalAllowedCents,
		claim.TotalPaidCents,
		claim.TotalPatientResponsibilityCents,
		claim.TotalAdjustmentsCents,
		claim.PrimaryInsuranceID,
		claim.SecondaryInsuranceID,
		claim.SubmittedDate,
		claim.SubmittedBy,
		claim.Clearinghouse,
		claim.ProcessedDate,
		claim.PaidDate,
		diagnosisCodes,
		claim.PlaceOfService,
		claim.ClaimFrequency,
		claim.Notes,
		claim.SpecialInstructions,
		claim.UpdatedAt,
		claim.UpdatedBy,
		claim.IsActive,
		claim.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update claim")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return claimsDomain.ErrClaimNotFound
	}

	return nil
}

// List retrieves active claims ordered by newest first, optionally filtered
// by status.
func (r *PostgreSQLClaimRepository) List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE is_active = TRUE AND ($1::text IS NULL OR status = $1)
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, enumValue(status), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list claims")
	}

	return collectClaims(rows)
}

// ListByPatient retrieves a patient's active claims, newest first.
func (r *PostgreSQLClaimRepository) ListByPatient(ctx context.Context, patientID int64) ([]*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE patient_id = $1 AND is_active = TRUE
		ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list patient claims")
	}

	return collectClaims(rows)
}

// AddStatusHistory appends a status history entry for a claim.
func (r *PostgreSQLClaimRepository) AddStatusHistory(ctx context.Context, entry *claimsDomain.ClaimStatusHistory) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO claim_status_history (claim_id, status, changed_at, changed_by, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		entry.ClaimID,
		string(entry.Status),
		entry.ChangedAt,
		entry.ChangedBy,
		entry.Notes,
	).Scan(&entry.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to add status history")
	}

	return nil
}

// ListStatusHistory retrieves a claim's status history in chronological order.
func (r *PostgreSQLClaimRepository) ListStatusHistory(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimStatusHistory, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + historyColumns + ` FROM claim_status_history
		WHERE claim_id = $1
		ORDER BY changed_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list status history")
	}

	return collectHistory(rows)
}

// NewPostgreSQLClaimRepository creates a new PostgreSQL claim repository.
func NewPostgreSQLClaimRepository(db *sql.DB) *PostgreSQLClaimRepository {
	return &PostgreSQLClaimRepository{db: db}
}

// PostgreSQLDenialRepository implements ClaimDenial persistence for PostgreSQL.
type PostgreSQLDenialRepository struct {
	db *sql.DB
}

// Create inserts a new denial and assigns the storage ID.
func (r *PostgreSQLDenialRepository) Create(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO claim_denials (external_reference, claim_id, denial_code, denial_description,
		denial_category, denied_amount_cents, denial_date, appeal_deadline,
		is_resolved, resolution_notes, resolved_date, resolved_by,
		appeal_filed, appeal_date, appeal_outcome,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20)
		RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		denial.ExternalRef,
		denial.ClaimID,
		denial.DenialCode,
		denial.DenialDescription,
		enumValue(denial.DenialCategory),
		denial.DeniedAmountCents,
		denial.DenialDate,
		denial.AppealDeadline,
		denial.IsResolved,
		denial.ResolutionNotes,
		denial.ResolvedDate,
		denial.ResolvedBy,
		denial.AppealFiled,
		denial.AppealDate,
		denial.AppealOutcome,
		denial.CreatedAt,
		denial.UpdatedAt,
		denial.CreatedBy,
		denial.UpdatedBy,
		denial.IsActive,
	).Scan(&denial.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create denial")
	}

	return nil
}

// GetByExternalRef retrieves a denial by external reference.
func (r *PostgreSQLDenialRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.ClaimDenial, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + denialColumns + ` FROM claim_denials WHERE external_reference = $1`

	denial, err := scanDenial(querier.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, claimsDomain.ErrDenialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get denial")
	}

	return denial, nil
}

// Update persists the denial's mutable columns.
func (r *PostgreSQLDenialRepository) Update(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE claim_denials SET
		denial_description = $1, denial_category = $2, denied_amount_cents = $3,
		denial_date = $4, appeal_deadline = $5,
		is_resolved = $6, resolution_notes = $7, resolved_date = $8, resolved_by = $9,
		appeal_filed = $10, appeal_date = $11, appeal_outcome = $12,
		updated_at = $13, updated_by = $14, is_active = $15
		WHERE id = $16`

	result, err := querier.ExecContext(
		ctx,
		query,
		denial.DenialDescription,
		enumValue(denial.DenialCategory),
		denial.DeniedAmountCents,
		denial.DenialDate,
		denial.AppealDeadline,
		denial.IsResolved,
		denial.ResolutionNotes,
		denial.ResolvedDate,
		denial.ResolvedBy,
		denial.AppealFiled,
		denial.AppealDate,
		denial.AppealOutcome,
		denial.UpdatedAt,
		denial.UpdatedBy,
		denial.IsActive,
		denial.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update denial")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return claimsDomain.ErrDenialNotFound
	}

	return nil
}

// ListByClaim retrieves a claim's active denials, newest first.
func (r *PostgreSQLDenialRepository) ListByClaim(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimDenial, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + denialColumns + ` FROM claim_denials
		WHERE claim_id = $1 AND is_active = TRUE
		ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list denials")
	}

	return collectDenials(rows)
}

// NewPostgreSQLDenialRepository creates a new PostgreSQL denial repository.
func NewPostgreSQLDenialRepository(db *sql.DB) *PostgreSQLDenialRepository {
	return &PostgreSQLDenialRepository{db: db}
}
