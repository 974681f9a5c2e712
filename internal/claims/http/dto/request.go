// Package dto provides request and response types for claim HTTP endpoints.
package dto

import (
	"github.com/allisson/medbilling/internal/claims/domain"
)

// CreateClaimRequest represents the payload for registering a claim.
type CreateClaimRequest struct {
	PatientRef          string   `json:"patient_ref"`
	ProviderID          string   `json:"provider_id"`
	FacilityID          string   `json:"facility_id"`
	ClaimType           string   `json:"claim_type"`
	Priority            string   `json:"priority"`
	ServiceDateFrom     string   `json:"service_date_from"`
	ServiceDateTo       string   `json:"service_date_to"`
	TotalChargesCents   int64    `json:"total_charges_cents"`
	DiagnosisCodes      []string `json:"diagnosis_codes"`
	PlaceOfService      string   `json:"place_of_service"`
	ClaimFrequency      string   `json:"claim_frequency"`
	Notes               string   `json:"notes"`
	SpecialInstructions string   `json:"special_instructions"`
}

// ToInput converts the request to a domain input.
func (r *CreateClaimRequest) ToInput() *domain.CreateClaimInput {
	return &domain.CreateClaimInput{
		PatientRef:          r.PatientRef,
		ProviderID:          r.ProviderID,
		FacilityID:          r.FacilityID,
		ClaimType:           r.ClaimType,
		Priority:            r.Priority,
		ServiceDateFrom:     r.ServiceDateFrom,
		ServiceDateTo:       r.ServiceDateTo,
		TotalChargesCents:   r.TotalChargesCents,
		DiagnosisCodes:      r.DiagnosisCodes,
		PlaceOfService:      r.PlaceOfService,
		ClaimFrequency:      r.ClaimFrequency,
		Notes:               r.Notes,
		SpecialInstructions: r.SpecialInstructions,
	}
}

// Validate validates the request payload.
func (r *CreateClaimRequest) Validate() error {
	return r.ToInput().Validate()
}

// TransitionClaimRequest represents the payload for a claim status change.
type TransitionClaimRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ToInput converts the request to a domain input.
func (r *TransitionClaimRequest) ToInput() *domain.TransitionClaimInput {
	return &domain.TransitionClaimInput{
		Status: r.Status,
		Notes:  r.Notes,
	}
}

// Validate validates the request payload.
func (r *TransitionClaimRequest) Validate() error {
	return r.ToInput().Validate()
}

// CreateDenialRequest represents the payload for recording a payer denial.
type CreateDenialRequest struct {
	DenialCode        string `json:"denial_code"`
	DenialDescription string `json:"denial_description"`
	DenialCategory    string `json:"denial_category"`
	DeniedAmountCents int64  `json:"denied_amount_cents"`
	DenialDate        string `json:"denial_date"`
	AppealDeadline    string `json:"appeal_deadline"`
}

// ToInput converts the request to a domain input.
func (r *CreateDenialRequest) ToInput() *domain.CreateDenialInput {
	return &domain.CreateDenialInput{
		DenialCode:        r.DenialCode,
		DenialDescription: r.DenialDescription,
		DenialCategory:    r.DenialCategory,
		DeniedAmountCents: r.DeniedAmountCents,
		DenialDate:        r.DenialDate,
		AppealDeadline:    r.AppealDeadline,
	}
}

// Validate validates the request payload.
func (r *CreateDenialRequest) Validate() error {
	return r.ToInput().Validate()
}

// ResolveDenialRequest represents the payload for resolving a denial.
type ResolveDenialRequest struct {
	Notes string `json:"notes"`
}
