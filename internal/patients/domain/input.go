package domain

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/medbilling/internal/validation"
)

// CreatePatientInput contains the plaintext attributes for registering a new
// patient. The struct only lives for the duration of the create call; the
// use case encrypts the identifying fields immediately and never stores the
// input.
type CreatePatientInput struct {
	FirstName            string
	LastName             string
	MiddleName           string
	SocialSecurityNumber string
	DateOfBirth          string

	Phone            string
	Email            string
	EmergencyContact string
	EmergencyPhone   string

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string

	Gender            string
	MaritalStatus     string
	PreferredLanguage string

	PreferredCommunication string
	AllowSMS               bool
	AllowEmail             bool
	FinancialClass         string
}

// Validate checks required fields and formats. First name, last name and
// date of birth are mandatory; everything else validates only when present.
func (i *CreatePatientInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.FirstName,
			validation.Required.Error("first name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("first name must be between 1 and 255 characters"),
		),
		validation.Field(&i.LastName,
			validation.Required.Error("last name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("last name must be between 1 and 255 characters"),
		),
		validation.Field(&i.DateOfBirth,
			validation.Required.Error("date of birth is required"),
			appValidation.ISODate,
		),
		validation.Field(&i.SocialSecurityNumber,
			validation.Skip.When(i.SocialSecurityNumber == ""),
			appValidation.SSN,
		),
		validation.Field(&i.Email,
			validation.Skip.When(i.Email == ""),
			appValidation.Email,
		),
		validation.Field(&i.ZipCode,
			validation.Skip.When(i.ZipCode == ""),
			appValidation.ZipCode,
		),
		validation.Field(&i.Gender,
			validation.Skip.When(i.Gender == ""),
			validation.By(func(any) error {
				if !Gender(i.Gender).Valid() {
					return validation.NewError("validation_gender", "must be one of M, F, O, U")
				}
				return nil
			}),
		),
		validation.Field(&i.MaritalStatus,
			validation.Skip.When(i.MaritalStatus == ""),
			validation.By(func(any) error {
				if !MaritalStatus(i.MaritalStatus).Valid() {
					return validation.NewError("validation_marital_status", "must be one of S, M, D, W, P, U")
				}
				return nil
			}),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateInsuranceInput contains the plaintext attributes for attaching an
// insurance policy to a patient.
type CreateInsuranceInput struct {
	InsuranceType string
	PayerName     string
	PayerID       string

	PolicyNumber string
	GroupNumber  string
	SubscriberID string

	PolicyHolderName string
	PolicyHolderDOB  string
	PolicyHolderSSN  string

	RelationshipToPatient string
	// EffectiveDate and TerminationDate are YYYY-MM-DD dates, optional.
	EffectiveDate   string
	TerminationDate string
	IsPrimary       bool
}

// Validate checks required fields and formats.
func (i *CreateInsuranceInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.InsuranceType,
			validation.Required.Error("insurance type is required"),
			validation.By(func(any) error {
				if !InsuranceType(i.InsuranceType).Valid() {
					return validation.NewError("validation_insurance_type", "unknown insurance type")
				}
				return nil
			}),
		),
		validation.Field(&i.PayerName,
			validation.Required.Error("payer name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("payer name must be between 1 and 255 characters"),
		),
		validation.Field(&i.PolicyNumber,
			validation.Required.Error("policy number is required"),
			appValidation.NotBlank,
		),
		validation.Field(&i.PolicyHolderSSN,
			validation.Skip.When(i.PolicyHolderSSN == ""),
			appValidation.SSN,
		),
		validation.Field(&i.PolicyHolderDOB,
			validation.Skip.When(i.PolicyHolderDOB == ""),
			appValidation.ISODate,
		),
		validation.Field(&i.EffectiveDate,
			validation.Skip.When(i.EffectiveDate == ""),
			appValidation.ISODate,
		),
		validation.Field(&i.TerminationDate,
			validation.Skip.When(i.TerminationDate == ""),
			appValidation.ISODate,
		),
	)
	return appValidation.WrapValidationError(err)
}
