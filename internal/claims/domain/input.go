package domain

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/medbilling/internal/validation"
)

// CreateClaimInput contains the parameters for registering a new claim.
// Dates are YYYY-MM-DD strings and monetary amounts integer cents.
type CreateClaimInput struct {
	PatientRef string
	ProviderID string
	FacilityID string

	ClaimType string
	Priority  string

	ServiceDateFrom string
	ServiceDateTo   string

	TotalChargesCents int64

	DiagnosisCodes []string
	PlaceOfService string
	ClaimFrequency string

	Notes               string
	SpecialInstructions string
}

// Validate checks required fields and formats.
func (i *CreateClaimInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.PatientRef,
			validation.Required.Error("patient reference is required"),
			appValidation.NotBlank,
		),
		validation.Field(&i.ClaimType,
			validation.Required.Error("claim type is required"),
			validation.By(func(any) error {
				if !ClaimType(i.ClaimType).Valid() {
					return validation.NewError(
						"validation_claim_type",
						"must be one of professional, institutional, dental, vision, pharmacy",
					)
				}
				return nil
			}),
		),
		validation.Field(&i.Priority,
			validation.Skip.When(i.Priority == ""),
			validation.By(func(any) error {
				if !ClaimPriority(i.Priority).Valid() {
					return validation.NewError(
						"validation_claim_priority",
						"must be one of routine, urgent, emergency",
					)
				}
				return nil
			}),
		),
		validation.Field(&i.ServiceDateFrom,
			validation.Required.Error("service date is required"),
			appValidation.ISODate,
		),
		validation.Field(&i.ServiceDateTo,
			validation.Skip.When(i.ServiceDateTo == ""),
			appValidation.ISODate,
		),
		validation.Field(&i.TotalChargesCents,
			validation.Min(int64(0)).Error("total charges must not be negative"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// TransitionClaimInput contains the parameters for a claim status change.
type TransitionClaimInput struct {
	Status string
	Notes  string
}

// Validate checks the target status is a known value. Whether the transition
// is legal from the claim's current status is decided by the claim itself.
func (i *TransitionClaimInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Status,
			validation.Required.Error("status is required"),
			validation.By(func(any) error {
				if !ClaimStatus(i.Status).Valid() {
					return validation.NewError("validation_claim_status", "unknown claim status")
				}
				return nil
			}),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateDenialInput contains the parameters for recording a payer denial.
type CreateDenialInput struct {
	DenialCode        string
	DenialDescription string
	DenialCategory    string

	DeniedAmountCents int64

	DenialDate     string
	AppealDeadline string
}

// Validate checks required fields and formats.
func (i *CreateDenialInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.DenialCode,
			validation.Required.Error("denial code is required"),
			appValidation.NotBlank,
			validation.Length(1, 20).Error("denial code must be between 1 and 20 characters"),
		),
		validation.Field(&i.DenialCategory,
			validation.Skip.When(i.DenialCategory == ""),
			validation.By(func(any) error {
				if !DenialCategory(i.DenialCategory).Valid() {
					return validation.NewError("validation_denial_category", "unknown denial category")
				}
				return nil
			}),
		),
		validation.Field(&i.DeniedAmountCents,
			validation.Min(int64(0)).Error("denied amount must not be negative"),
		),
		validation.Field(&i.DenialDate,
			validation.Required.Error("denial date is required"),
			appValidation.ISODate,
		),
		validation.Field(&i.AppealDeadline,
			validation.Skip.When(i.AppealDeadline == ""),
			appValidation.ISODate,
		),
	)
	return appValidation.WrapValidationError(err)
}
