// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	patientsDomain "github.com/allisson/medbilling/internal/patients/domain"
)

// CreatePatientRequest contains the parameters for registering a new patient.
// Identifying attributes are accepted as plaintext and encrypted before they
// reach storage; they are never echoed back in the response.
type CreatePatientRequest struct {
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	MiddleName             string `json:"middle_name"`
	SocialSecurityNumber   string `json:"social_security_number"`
	DateOfBirth            string `json:"date_of_birth"`
	Phone                  string `json:"phone"`
	Email                  string `json:"email"`
	EmergencyContact       string `json:"emergency_contact"`
	EmergencyPhone         string `json:"emergency_phone"`
	AddressLine1           string `json:"address_line_1"`
	AddressLine2           string `json:"address_line_2"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	ZipCode                string `json:"zip_code"`
	Country                string `json:"country"`
	Gender                 string `json:"gender"`
	MaritalStatus          string `json:"marital_status"`
	PreferredLanguage      string `json:"preferred_language"`
	PreferredCommunication string `json:"preferred_communication"`
	AllowSMS               bool   `json:"allow_sms"`
	AllowEmail             bool   `json:"allow_email"`
	FinancialClass         string `json:"financial_class"`
}

// ToInput converts the request to a domain create input.
func (r *CreatePatientRequest) ToInput() *patientsDomain.CreatePatientInput {
	return &patientsDomain.CreatePatientInput{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		MiddleName:             r.MiddleName,
		SocialSecurityNumber:   r.SocialSecurityNumber,
		DateOfBirth:            r.DateOfBirth,
		Phone:                  r.Phone,
		Email:                  r.Email,
		EmergencyContact:       r.EmergencyContact,
		EmergencyPhone:         r.EmergencyPhone,
		AddressLine1:           r.AddressLine1,
		AddressLine2:           r.AddressLine2,
		City:                   r.City,
		State:                  r.State,
		ZipCode:                r.ZipCode,
		Country:                r.Country,
		Gender:                 r.Gender,
		MaritalStatus:          r.MaritalStatus,
		PreferredLanguage:      r.PreferredLanguage,
		PreferredCommunication: r.PreferredCommunication,
		AllowSMS:               r.AllowSMS,
		AllowEmail:             r.AllowEmail,
		FinancialClass:         r.FinancialClass,
	}
}

// Validate checks if the create patient request is valid.
func (r *CreatePatientRequest) Validate() error {
	return r.ToInput().Validate()
}

// CreateInsuranceRequest contains the parameters for attaching an insurance
// policy to a patient.
type CreateInsuranceRequest struct {
	InsuranceType         string `json:"insurance_type"`
	PayerName             string `json:"payer_name"`
	PayerID               string `json:"payer_id"`
	PolicyNumber          string `json:"policy_number"`
	GroupNumber           string `json:"group_number"`
	SubscriberID          string `json:"subscriber_id"`
	PolicyHolderName      string `json:"policy_holder_name"`
	PolicyHolderDOB       string `json:"policy_holder_dob"`
	PolicyHolderSSN       string `json:"policy_holder_ssn"`
	RelationshipToPatient string `json:"relationship_to_patient"`
	EffectiveDate         string `json:"effective_date"`
	TerminationDate       string `json:"termination_date"`
	IsPrimary             bool   `json:"is_primary"`
}

// ToInput converts the request to a domain create input.
func (r *CreateInsuranceRequest) ToInput() *patientsDomain.CreateInsuranceInput {
	return &patientsDomain.CreateInsuranceInput{
		InsuranceType:         r.InsuranceType,
		PayerName:             r.PayerName,
		PayerID:               r.PayerID,
		PolicyNumber:          r.PolicyNumber,
		GroupNumber:           r.GroupNumber,
		SubscriberID:          r.SubscriberID,
		PolicyHolderName:      r.PolicyHolderName,
		PolicyHolderDOB:       r.PolicyHolderDOB,
		PolicyHolderSSN:       r.PolicyHolderSSN,
		RelationshipToPatient: r.RelationshipToPatient,
		EffectiveDate:         r.EffectiveDate,
		TerminationDate:       r.TerminationDate,
		IsPrimary:             r.IsPrimary,
	}
}

// Validate checks if the create insurance request is valid.
func (r *CreateInsuranceRequest) Validate() error {
	return r.ToInput().Validate()
}
