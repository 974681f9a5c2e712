package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// MySQLInsuranceRepository implements PatientInsurance persistence for MySQL.
type MySQLInsuranceRepository struct {
	db *sql.DB
}

// Create inserts a new insurance policy and assigns the storage ID.
func (m *MySQLInsuranceRepository) Create(ctx context.Context, policy *patientsDomain.PatientInsurance) error {
	querier := database.GetTx(ctx, m.db)

	externalRef, err := policy.ExternalRef.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal external reference")
	}

	query := `INSERT INTO patient_insurance (external_reference, patient_id, insurance_type, payer_name, payer_id,
		policy_number_encrypted, group_number_encrypted, subscriber_id_encrypted,
		policy_holder_name_encrypted, policy_holder_dob_encrypted, policy_holder_ssn_encrypted,
		relationship_to_patient, effective_date, termination_date, is_primary,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		externalRef,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create insurance policy")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get insurance policy id")
	}
	policy.ID = id

	return nil
}

// GetByExternalRef retrieves an insurance policy by external reference.
func (m *MySQLInsuranceRepository) GetByExternalRef(
	ctx context.Context,
	externalRef uuid.UUID,
) (*patientsDomain.PatientInsurance, error) {
	querier := database.GetTx(ctx, m.db)

	refBinary, err := externalRef.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal external reference")
	}

	query := `SELECT ` + insuranceColumns + ` FROM patient_insurance WHERE external_reference = ?`

	policy, err := scanInsurance(querier.QueryRowContext(ctx, query, refBinary))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrInsuranceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get insurance policy")
	}

	return policy, nil
}

// Update persists the policy's mutable columns.
func (m *MySQLInsuranceRepository) Update(ctx context.Context, policy *patientsDomain.PatientInsurance) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE patient_insurance SET
		insurance_type = ?, payer_name = ?, payer_id = ?,
		policy_number_encrypted = ?, group_number_encrypted = ?, subscriber_id_encrypted = ?,
		policy_holder_name_encrypted = ?, policy_holder_dob_encrypted = ?, policy_holder_ssn_encrypted = ?,
		relationship_to_patient = ?, effective_date = ?, termination_date = ?, is_primary = ?,
		updated_at = ?, updated_by = ?, is_active = ?
		WHERE id = ?`

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
func (m *MySQLInsuranceRepository) ListByPatient(
	ctx context.Context,
	patientID int64,
) ([]*patientsDomain.PatientInsurance, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + insuranceColumns + ` FROM patient_insurance
			  WHERE patient_id = ? AND is_active = TRUE
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

// NewMySQLInsuranceRepository creates a new MySQL PatientInsurance repository.
func NewMySQLInsuranceRepository(db *sql.DB) *MySQLInsuranceRepository {
	return &MySQLInsuranceRepository{db: db}
}
