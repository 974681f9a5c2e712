package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// PostgreSQLInsuranceRepository implements PatientInsurance persistence for PostgreSQL.
type PostgreSQLInsuranceRepository struct {
	db *sql.DB
}

const insuranceColumns = `id, external_reference, patient_id, insurance_type, payer_name, payer_id,
	policy_number_encrypted, group_number_encrypted, subscriber_id_encrypted,
	policy_holder_name_encrypted, policy_holder_dob_encrypted, policy_holder_ssn_encrypted,
	relationship_to_patient, effective_date, termination_date, is_primary,
	created_at, updated_at, created_by, updated_by, is_active`

// Create inserts a new insurance policy and assigns the storage ID.
func (p *PostgreSQLInsuranceRepository) Create(ctx context.Context, policy *patientsDomain.PatientInsurance) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO patient_insurance (external_reference, patient_id, insurance_type, payer_name, payer_id,
		policy_number_encrypted, group_number_encrypted, subscriber_id_encrypted,
		policy_holder_name_encrypted, policy_holder_dob_encrypted, policy_holder_ssn_encrypted,
		relationship_to_patient, effective_date, termination_date, is_primary,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		policy.ExternalRef,
		policy.PatientID,
		string(policy.InsuranceType),
		policy.PayerName,
		policy.PayerID,
		policy.PolicyNumber,
		policy.GroupNumber,
		policy.SubscriberID,
		policy.PolicyHolderName,
		policy.PolicyHolderDOB,
		policy.PolicyHolderSSN,
		policy.RelationshipToPatient,
		policy.EffectiveDate,
		policy.TerminationDate,
		policy.IsPrimary,
		policy.CreatedAt,
		policy.UpdatedAt,
		policy.CreatedBy,
		policy.UpdatedBy,
		policy.IsActive,
	).Scan(&policy.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create insurance policy")
	}

	return nil
}

// GetByExternalRef retrieves an insurance policy by external reference.
func (p *PostgreSQLInsuranceRepository) GetByExternalRef(
	ctx context.Context,
	externalRef uuid.UUID,
) (*patientsDomain.PatientInsurance, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + insuranceColumns + ` FROM patient_insurance WHERE external_reference = $1`

	policy, err := scanInsurance(querier.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrInsuranceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get insurance policy")
	}

	return policy, nil
}

// Update persists the policy's mutable columns.
func (p *PostgreSQLInsuranceRepository) Update(ctx context.Context, policy *patientsDomain.PatientInsurance) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE patient_insurance SET
		insurance_type = $1, payer_name = $2, payer_id = $3,
		policy_number_encrypted = $4, group_number_encrypted = $5, subscriber_id_encrypted = $6,
		policy_holder_name_encrypted = $7, policy_holder_dob_encrypted = $8, policy_holder_ssn_encrypted = $9,
		relationship_to_patient = $10, effective_date = $11, termination_date = $12, is_primary = $13,
		updated_at = $14, updated_by = $15, is_active = $16
		WHERE id = $17`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(policy.InsuranceType),
		policy.PayerName,
		policy.PayerID,
		policy.PolicyNumber,
		policy.GroupNumber,
		policy.SubscriberID,
		policy.PolicyHolderName,
		policy.PolicyHolderDOB,
		policy.PolicyHolderSSN,
		policy.RelationshipToPatient,
		policy.EffectiveDate,
		policy.TerminationDate,
		policy.IsPrimary,
		policy.UpdatedAt,
		policy.UpdatedBy,
		policy.IsActive,
		policy.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update insurance policy")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows count")
	}
	if affected == 0 {
		return patientsDomain.ErrInsuranceNotFound
	}

	return nil
}

// ListByPatient retrieves a patient's active insurance policies, primary
// policies first.
func (p *PostgreSQLInsuranceRepository) ListByPatient(
	ctx context.Context,
	patientID int64,
) ([]*patientsDomain.PatientInsurance, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + insuranceColumns + ` FROM patient_insurance
			  WHERE patient_id = $1 AND is_active = TRUE
			  ORDER BY is_primary DESC, id ASC`

	rows, err := querier.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list insurance policies")
	}
	defer func() {
		_ = rows.Close()
	}()

	policies := make([]*patientsDomain.PatientInsurance, 0)
	for rows.Next() {
		policy, err := scanInsurance(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan insurance policy")
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate insurance policies")
	}

	return policies, nil
}

// NewPostgreSQLInsuranceRepository creates a new PostgreSQL PatientInsurance repository.
func NewPostgreSQLInsuranceRepository(db *sql.DB) *PostgreSQLInsuranceRepository {
	return &PostgreSQLInsuranceRepository{db: db}
}
