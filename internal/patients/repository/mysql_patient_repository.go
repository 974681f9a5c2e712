package repository

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/medbilling/internal/database"
	apperrors "github.com/allisson/medbilling/internal/errors"
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLPatientRepository implements Patient persistence for MySQL.
// External references are stored as BINARY(16); scanning works unchanged
// because uuid.UUID accepts 16-byte values.
type MySQLPatientRepository struct {
	db *sql.DB
}

// Create inserts a new patient and assigns the storage ID via LastInsertId.
// A duplicate medical record number maps to ErrDuplicateMRN.
func (m *MySQLPatientRepository) Create(ctx context.Context, patient *patientsDomain.Patient) error {
	querier := database.GetTx(ctx, m.db)

	externalRef, err := patient.ExternalRef.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal external reference")
	}

	query := `INSERT INTO patients (external_reference, medical_record_number,
		first_name_encrypted, last_name_encrypted, middle_name_encrypted,
		social_security_number_encrypted, date_of_birth_encrypted,
		phone_encrypted, email_encrypted, emergency_contact_encrypted, emergency_phone_encrypted,
		address_line_1_encrypted, address_line_2_encrypted, city_encrypted, state_encrypted,
		zip_code_encrypted, country_encrypted,
		gender, marital_status, preferred_language, is_deceased, deceased_date,
		preferred_communication, allow_sms, allow_email, financial_class,
		created_at, updated_at, created_by, updated_by, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		externalRef,
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
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if apperrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return patientsDomain.ErrDuplicateMRN
		}
		return apperrors.Wrap(err, "failed to create patient")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get patient id")
	}
	patient.ID = id

	return nil
}

// GetByExternalRef retrieves a patient by external reference, including
// soft-deleted records.
func (m *MySQLPatientRepository) GetByExternalRef(
	ctx context.Context,
	externalRef uuid.UUID,
) (*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, m.db)

	refBinary, err := externalRef.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal external reference")
	}

	query := `SELECT ` + patientColumns + ` FROM patients WHERE external_reference = ?`

	patient, err := scanPatient(querier.QueryRowContext(ctx, query, refBinary))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient")
	}

	return patient, nil
}

// GetByMRN retrieves a patient by medical record number.
func (m *MySQLPatientRepository) GetByMRN(
	ctx context.Context,
	mrn string,
) (*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + patientColumns + ` FROM patients WHERE medical_record_number = ?`

	patient, err := scanPatient(querier.QueryRowContext(ctx, query, mrn))
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, patientsDomain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient by mrn")
	}

	return patient, nil
}

// Update persists the patient's mutable columns.
func (m *MySQLPatientRepository) Update(ctx context.Context, patient *patientsDomain.Patient) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE patients SET
		first_name_encrypted = ?, last_name_encrypted = ?, middle_name_encrypted = ?,
		social_security_number_encrypted = ?, date_of_birth_encrypted = ?,
		phone_encrypted = ?, email_encrypted = ?, emergency_contact_encrypted = ?,
		emergency_phone_encrypted = ?, address_line_1_encrypted = ?, address_line_2_encrypted = ?,
		city_encrypted = ?, state_encrypted = ?, zip_code_encrypted = ?, country_encrypted = ?,
		gender = ?, marital_status = ?, preferred_language = ?, is_deceased = ?,
		deceased_date = ?, preferred_communication = ?, allow_sms = ?, allow_email = ?,
		financial_class = ?, updated_at = ?, updated_by = ?, is_active = ?
		WHERE id = ?`

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
func (m *MySQLPatientRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*patientsDomain.Patient, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + patientColumns + ` FROM patients
			  WHERE is_active = TRUE
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

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

// NewMySQLPatientRepository creates a new MySQL Patient repository.
func NewMySQLPatientRepository(db *sql.DB) *MySQLPatientRepository {
	return &MySQLPatientRepository{db: db}
}
