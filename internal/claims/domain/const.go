// Package domain defines the core claim entities for the billing pipeline.
package domain

// ResourceType is the audit resource type for claims.
const ResourceType = "claim"

// ClaimType identifies the claim form family.
type ClaimType string

const (
	ClaimProfessional  ClaimType = "professional"
	ClaimInstitutional ClaimType = "institutional"
	ClaimDental        ClaimType = "dental"
	ClaimVision        ClaimType = "vision"
	ClaimPharmacy      ClaimType = "pharmacy"
)

// Valid reports whether the claim type is a known value.
func (c ClaimType) Valid() bool {
	switch c {
	case ClaimProfessional, ClaimInstitutional, ClaimDental, ClaimVision, ClaimPharmacy:
		return true
	}
	return false
}

// ClaimStatus tracks a claim through the billing lifecycle.
type ClaimStatus string

const (
	StatusDraft         ClaimStatus = "draft"
	StatusReadyToSubmit ClaimStatus = "ready_to_submit"
	StatusSubmitted     ClaimStatus = "submitted"
	StatusAccepted      ClaimStatus = "accepted"
	StatusRejected      ClaimStatus = "rejected"
	StatusDenied        ClaimStatus = "denied"
	StatusPaid          ClaimStatus = "paid"
	StatusPartiallyPaid ClaimStatus = "partially_paid"
	StatusAppealed      ClaimStatus = "appealed"
	StatusClosed        ClaimStatus = "closed"
	StatusCancelled     ClaimStatus = "cancelled"
)

// Valid reports whether the claim status is a known value.
func (c ClaimStatus) Valid() bool {
	_, ok := allowedTransitions[c]
	return ok
}

// Terminal reports whether the status accepts no further transitions.
func (c ClaimStatus) Terminal() bool {
	return len(allowedTransitions[c]) == 0
}

// allowedTransitions defines the legal claim status transitions.
// Rejected and denied claims can re-enter the pipeline through correction
// or appeal; closed and cancelled are terminal.
var allowedTransitions = map[ClaimStatus][]ClaimStatus{
	StatusDraft:         {StatusReadyToSubmit, StatusCancelled},
	StatusReadyToSubmit: {StatusSubmitted, StatusDraft, StatusCancelled},
	StatusSubmitted:     {StatusAccepted, StatusRejected},
	StatusAccepted:      {StatusPaid, StatusPartiallyPaid, StatusDenied},
	StatusRejected:      {StatusDraft, StatusCancelled},
	StatusDenied:        {StatusAppealed, StatusClosed},
	StatusPaid:          {StatusClosed},
	StatusPartiallyPaid: {StatusPaid, StatusAppealed, StatusClosed},
	StatusAppealed:      {StatusPaid, StatusPartiallyPaid, StatusDenied, StatusClosed},
	StatusClosed:        {},
	StatusCancelled:     {},
}

// CanTransitionTo reports whether a transition from the current status to the
// target status is allowed.
func (c ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	for _, allowed := range allowedTransitions[c] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ClaimPriority marks the processing urgency of a claim.
type ClaimPriority string

const (
	PriorityRoutine   ClaimPriority = "routine"
	PriorityUrgent    ClaimPriority = "urgent"
	PriorityEmergency ClaimPriority = "emergency"
)

// Valid reports whether the claim priority is a known value.
func (c ClaimPriority) Valid() bool {
	switch c {
	case PriorityRoutine, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// DenialCategory classifies why a payer denied a claim.
type DenialCategory string

const (
	DenialAuthorization          DenialCategory = "authorization"
	DenialCoding                 DenialCategory = "coding"
	DenialEligibility            DenialCategory = "eligibility"
	DenialMedicalNecessity       DenialCategory = "medical_necessity"
	DenialDuplicate              DenialCategory = "duplicate"
	DenialTimelyFiling           DenialCategory = "timely_filing"
	DenialMissingInformation     DenialCategory = "missing_information"
	DenialCoordinationOfBenefits DenialCategory = "coordination_of_benefits"
	DenialOther                  DenialCategory = "other"
)

// Valid reports whether the denial category is a known value.
func (d DenialCategory) Valid() bool {
	switch d {
	case DenialAuthorization, DenialCoding, DenialEligibility, DenialMedicalNecessity,
		DenialDuplicate, DenialTimelyFiling, DenialMissingInformation,
		DenialCoordinationOfBenefits, DenialOther:
		return true
	}
	return false
}
