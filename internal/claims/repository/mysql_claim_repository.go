package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	claimsDomain "github.com/allisson/medbilling/internal/claims/domain"
	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLClaimRepository implements Claim persistence for MySQL.
// External references are stored as BINARY(16).
type MySQLClaimRepository struct {
	db *sql.DB
}

// Create inserts a new claim and assigns the storage ID.
func (r *MySQLClaimRepository) Create(ctx context.Context, claim *claimsDomain.Claim) error {
	querier := database.GetTx(ctx, r.db)

	externalRef, err := claim.ExternalRef.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode external reference")
	}

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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		externalRef,
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
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if apperrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return claimsDomain.ErrDuplicateClaimNumber
		}
		return apperrors.Wrap(err, "failed to create claim")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get claim id")
	}
	claim.ID = id

	return nil
}

// GetByExternalRef retrieves a claim by external reference, including
// soft-deleted records.
func (r *MySQLClaimRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	ref, err := externalRef.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode external reference")
	}

	query := `SELECT ` + claimColumns + ` FROM claims WHERE external_reference = ?`

	claim, err := scanClaim(querier.QueryRowContext(ctx, query, ref))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, claimsDomain.ErrClaimNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get claim")
	}

	return claim, nil
}

// GetByClaimNumber retrieves a claim by its claim number.
func (r *MySQLClaimRepository) GetByClaimNumber(ctx context.Context, claimNumber string) (*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims WHERE claim_number = ?`

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
func (r *MySQLClaimRepository) Update(ctx context.Context, claim *claimsDomain.Claim) error {
	querier := database.GetTx(ctx, r.db)

	diagnosisCodes, err := encodeDiagnosisCodes(claim.DiagnosisCodes)
	if err != nil {
		return err
	}

	query := `UPDATE claims SET
		external_claim_id = ?, provider_id = ?, facility_id = ?,
		claim_type = ?, status = ?, priority = ?,
		service_date_from = ?, service_date_to = ?,
		total_charges_cents = ?, total_allowed_cents = ?, total_paid_cents = ?,
		total_patient_responsibility_cents = ?, total_adjustments_cents = ?,
		primary_insurance_id = ?, secondary_insurance_id = ?,
		submitted_date = ?, submitted_by = ?, clearinghouse = ?,
		processed_date = ?, paid_date = ?,
		diagnosis_codes = ?, place_of_service = ?, claim_frequency = ?,
		notes = ?, special_instructions = ?,
		updated_at = ?, updated_by = ?, is_active = ?
		WHERE id = ?`

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
func (r *MySQLClaimRepository) List(ctx context.Context, status *claimsDomain.ClaimStatus, offset, limit int) ([]*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims WHERE is_active = TRUE`
	args := []any{}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list claims")
	}

	return collectClaims(rows)
}

// ListByPatient retrieves a patient's active claims, newest first.
func (r *MySQLClaimRepository) ListByPatient(ctx context.Context, patientID int64) ([]*claimsDomain.Claim, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + claimColumns + ` FROM claims
		WHERE patient_id = ? AND is_active = TRUE
		ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list patient claims")
	}

	return collectClaims(rows)
}

// AddStatusHistory appends a status history entry for a claim.
func (r *MySQLClaimRepository) AddStatusHistory(ctx context.Context, entry *claimsDomain.ClaimStatusHistory) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO claim_status_history (claim_id, status, changed_at, changed_by, notes)
		VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		entry.ClaimID,
		string(entry.Status),
		entry.ChangedAt,
		entry.ChangedBy,
		entry.Notes,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to add status history")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get status history id")
	}
	entry.ID = id

	return nil
}

// ListStatusHistory retrieves a claim's status history in chronological order.
func (r *MySQLClaimRepository) ListStatusHistory(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimStatusHistory, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + historyColumns + ` FROM claim_status_history
		WHERE claim_id = ?
		ORDER BY changed_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list status history")
	}

	return collectHistory(rows)
}

// NewMySQLClaimRepository creates a new MySQL claim repository.
func NewMySQLClaimRepository(db *sql.DB) *MySQLClaimRepository {
	return &MySQLClaimRepository{db: db}
}

// MySQLDenialRepository implements ClaimDenial persistence for MySQL.
type MySQLDenialRepository struct {
	db *sql.DB
}

// Create inserts a new denial and assigns the storage ID.
func (r *MySQLDenialRepository) Create(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	querier := database.GetTx(ctx, r.db)

	externalRef, err := denial.ExternalRef.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode external reference")
	}

	query := `INSERT INTO claim_denials (external_reference, claim_id, denial_code, denial_description,
		denial_category, denied_amount_cents, denial_date, appeal_deadline,
		is_resolved, resolution_notes, resolved_date, resolved_by,
		appeal_filed, appeal_date, appeal_outcome,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		externalRef,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create denial")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get denial id")
	}
	denial.ID = id

	return nil
}

// GetByExternalRef retrieves a denial by external reference.
func (r *MySQLDenialRepository) GetByExternalRef(ctx context.Context, externalRef uuid.UUID) (*claimsDomain.ClaimDenial, error) {
	querier := database.GetTx(ctx, r.db)

	ref, err := externalRef.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode external reference")
	}

	query := `SELECT ` + denialColumns + ` FROM claim_denials WHERE external_reference = ?`

	denial, err := scanDenial(querier.QueryRowContext(ctx, query, ref))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, claimsDomain.ErrDenialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get denial")
	}

	return denial, nil
}

// Update persists the denial's mutable columns.
func (r *MySQLDenialRepository) Update(ctx context.Context, denial *claimsDomain.ClaimDenial) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE claim_denials SET
		denial_description = ?, denial_category = ?, denied_amount_cents = ?,
		denial_date = ?, appeal_deadline = ?,
		is_resolved = ?, resolution_notes = ?, resolved_date = ?, resolved_by = ?,
		appeal_filed = ?, appeal_date = ?, appeal_outcome = ?,
		updated_at = ?, updated_by = ?, is_active = ?
		WHERE id = ?`

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
func (r *MySQLDenialRepository) ListByClaim(ctx context.Context, claimID int64) ([]*claimsDomain.ClaimDenial, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + denialColumns + ` FROM claim_denials
		WHERE claim_id = ? AND is_active = TRUE
		ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list denials")
	}

	return collectDenials(rows)
}

// NewMySQLDenialRepository creates a new MySQL denial repository.
func NewMySQLDenialRepository(db *sql.DB) *MySQLDenialRepository {
	return &MySQLDenialRepository{db: db}
}
