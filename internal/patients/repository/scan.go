package repository

import (
	"database/sql"

	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// enumValue converts an optional enum pointer to a driver-bindable value.
func enumValue[T ~string](value *T) any {
	if value == nil {
		return nil
	}
	return string(*value)
}

// scanPatient reads one patient row in patientColumns order.
func scanPatient(row rowScanner) (*patientsDomain.Patient, error) {
	var patient patientsDomain.Patient
	var gender, maritalStatus sql.NullString
	var deceasedDate sql.NullTime

	err := row.Scan(
		&patient.ID,
		&patient.ExternalRef,
		&patient.MedicalRecordNumber,
		&patient.FirstName,
		&patient.LastName,
		&patient.MiddleName,
		&patient.SocialSecurityNumber,
		&patient.DateOfBirth,
		&patient.Phone,
		&patient.Email,
		&patient.EmergencyContact,
		&patient.EmergencyPhone,
		&patient.AddressLine1,
		&patient.AddressLine2,
		&patient.City,
		&patient.State,
		&patient.ZipCode,
		&patient.Country,
		&gender,
		&maritalStatus,
		&patient.PreferredLanguage,
		&patient.IsDeceased,
		&deceasedDate,
		&patient.PreferredCommunication,
		&patient.AllowSMS,
		&patient.AllowEmail,
		&patient.FinancialClass,
		&patient.CreatedAt,
		&patient.UpdatedAt,
		&patient.CreatedBy,
		&patient.UpdatedBy,
		&patient.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if gender.Valid {
		value := patientsDomain.Gender(gender.String)
		patient.Gender = &value
	}
	if maritalStatus.Valid {
		value := patientsDomain.MaritalStatus(maritalStatus.String)
		patient.MaritalStatus = &value
	}
	if deceasedDate.Valid {
		patient.DeceasedDate = &deceasedDate.Time
	}

	return &patient, nil
}

// scanInsurance reads one insurance policy row in insuranceColumns order.
func scanInsurance(row rowScanner) (*patientsDomain.PatientInsurance, error) {
	var policy patientsDomain.PatientInsurance
	var insuranceType string
	var effectiveDate, terminationDate sql.NullTime

	err := row.Scan(
		&policy.ID,
		&policy.ExternalRef,
		&policy.PatientID,
		&insuranceType,
		&policy.PayerName,
		&policy.PayerID,
		&policy.PolicyNumber,
		&policy.GroupNumber,
		&policy.SubscriberID,
		&policy.PolicyHolderName,
		&policy.PolicyHolderDOB,
		&policy.PolicyHolderSSN,
		&policy.RelationshipToPatient,
		&effectiveDate,
		&terminationDate,
		&policy.IsPrimary,
		&policy.CreatedAt,
		&policy.UpdatedAt,
		&policy.CreatedBy,
		&policy.UpdatedBy,
		&policy.IsActive,
	)
	if err != nil {
		return nil, err
	}

	policy.InsuranceType = patientsDomain.InsuranceType(insuranceType)
	if effectiveDate.Valid {
		policy.EffectiveDate = &effectiveDate.Time
	}
	if terminationDate.Valid {
		policy.TerminationDate = &terminationDate.Time
	}

	return &policy, nil
}
