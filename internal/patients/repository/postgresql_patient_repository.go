// Package repository implements patient and insurance persistence for
// PostgreSQL and MySQL. Only ciphertext envelopes ever cross this boundary
// for PHI columns; the repositories never see plaintext.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgreSQLPatientRepository implements Patient persistence for PostgreSQL.
type PostgreSQLPatientRepository struct {
	db *sql.DB
}

const patientColumns = `id, external_reference, medical_record_number,
	first_name_encrypted, last_name_encrypted, middle_name_encrypted,
	social_security_number_encrypted, date_of_birth_encrypted,
	phone_encrypted, email_encrypted, emergency_contact_encrypted, emergency_phone_encrypted,
	address_line_1_encrypted, address_line_2_encrypted, city_encrypted, state_encrypted,
	zip_code_encrypted, country_encrypted,
	gender, marital_status, preferred_language, is_deceased, deceased_date,
	preferred_communication, allow_sms, allow_email, financial_class,
	created_at, updated_at, created_by, updated_by, is_active`

// Create inserts a new patient and assigns the storage ID. A duplicate
// medical record number maps to ErrDuplicateMRN so callers can regenerate.
func (p *PostgreSQLPatientRepository) Create(ctx context.Context, patient *patientsDomain.Patient) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO patients (external_reference, medical_record_number,
		first_name_encrypted, last_name_encrypted, middle_name_encrypted,
		social_security_number_encrypted, date_of_birth_encrypted,
		phone_encrypted, email_encrypted, emergency_contact_encrypted, emergency_phone_encrypted,
		address_line_1_encrypted, address_line_2_encrypted, city_encrypted, state_encrypted,
		zip_code_encrypted, country_encrypted,
		gender, marital_status, preferred_language, is_deceased, deceased_date,
		preferred_communication, allow_sms, allow_email, financial_class,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		patient.ExternalRef,
		patient.MedicalRecordNumber,
		patient.FirstName,
		patient.LastName,
		patient.MiddleName,
		patient.SocialSecurityNumber,
		patient.DateOfBirth,
		patient.Phone,
		patient.Email,
		patient.EmergencyContact,
		patient.EmergencyPhone,
		patient.AddressLine1,
		patient.AddressLine2,
		patient.City,
		patient.State,
		patient.ZipCode,
		patient.Country,
		enumValue(patient.Gender),
		enumValue(patient.MaritalStatus),
		patient.PreferredLanguage,
		patient.IsDeceased,
		patient.DeceasedDate,
		patient.PreferredCommunication,
		patient.AllowSMS,
		patient.AllowEmail,
		patient.FinancialClass,
		patient.CreatedAt,
		patient.UpdatedAt,
		patient.CreatedBy,
		patient.UpdatedBy,
		patient.IsActive,
	).Scan(&patient.ID)
	if err != nil {
		var pqErr *pq.Error
		if apperrors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return patientsDomain.ErrDuplicateMRN
		}
		return apperrors.Wrap(err, "failed to create patient")
	}

	return nil
}

// GetByExternalRef retrieves a patient by external reference, including
// soft-deleted records; the audit trail needs them retrievable.
func (p *PostgreSQLPatientRepository) GetByExternalRef(
	ctx context.Context,
	externalRef uuid.UUID,
) (*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + patientColumns + ` FROM patients WHERE external_reference = $1`

	patient, err := scanPatient(querier.QueryRowContext(ctx, query, externalRef))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient")
	}

	return patient, nil
}

// GetByMRN retrieves a patient by medical record number.
func (p *PostgreSQLPatientRepository) GetByMRN(
	ctx context.Context,
	mrn string,
) (*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + patientColumns + ` FROM patients WHERE medical_record_number = $1`

	patient, err := scanPatient(querier.QueryRowContext(ctx, query, mrn))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient by mrn")
	}

	return patient, nil
}

// Update persists the patient's mutable columns. The storage ID, external
// reference, MRN and creation fields are immutable and never touched.
func (p *PostgreSQLPatientRepository) Update(ctx context.Context, patient *patientsDomain.Patient) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE patients SET
		first_name_encrypted = $1, last_name_encrypted = $2, middle_name_encrypted = $3,
		social_security_number_encrypted = $4, date_of_birth_encrypted = $5,
		phone_encrypted = $6, email_encrypted = $7, emergency_contact_encrypted = $8,
		emergency_phone_encrypted = $9, address_line_1_encrypted = $10, address_line_2_encrypted = $11,
		city_encrypted = $12, state_encrypted = $13, zip_code_encrypted = $14, country_encrypted = $15,
		gender = $16, marital_status = $17, preferred_language = $18, is_deceased = $19,
		deceased_date = $20, preferred_communication = $21, allow_sms = $22, allow_email = $23,
		financial_class = $24, updated_at = $25, updated_by = $26, is_active = $27
		WHERE id = $28`

	result, err := querier.ExecContext(
		ctx,
		query,
		patient.FirstName,
		patient.LastName,
		patient.MiddleName,
		patient.SocialSecurityNumber,
		patient.DateOfBirth,
		patient.Phone,
		patient.Email,
		patient.EmergencyContact,
		patient.EmergencyPhone,
		patient.AddressLine1,
		patient.AddressLine2,
		patient.City,
		patient.State,
		patient.ZipCode,
		patient.Country,
		enumValue(patient.Gender),
		enumValue(patient.MaritalStatus),
		patient.PreferredLanguage,
		patient.IsDeceased,
		patient.DeceasedDate,
		patient.PreferredCommunication,
		patient.AllowSMS,
		patient.AllowEmail,
		patient.FinancialClass,
		patient.UpdatedAt,
		patient.UpdatedBy,
		patient.IsActive,
		patient.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update patient")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows count")
	}
	if affected == 0 {
		return patientsDomain.ErrPatientNotFound
	}

	return nil
}

// List retrieves active patients ordered by ID descending with pagination.
// Soft-deleted records are excluded from listings.
func (p *PostgreSQLPatientRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + patientColumns + ` FROM patients
			  WHERE is_active = TRUE
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list patients")
	}
	defer func() {
		_ = rows.Close()
	}()

	patients := make([]*patientsDomain.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan patient")
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate patients")
	}

	return patients, nil
}

// NewPostgreSQLPatientRepository creates a new PostgreSQL Patient repository.
func NewPostgreSQLPatientRepository(db *sql.DB) *PostgreSQLPatientRepository {
	return &PostgreSQLPatientRepository{db: db}
}
