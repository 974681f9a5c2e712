package domain

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/allisson/medbilling/internal/record"
)

// Claim is a billable medical claim. Monetary amounts are stored as integer
// cents. Claims carry no directly identifying patient attributes; the link to
// the patient record is by storage ID only.
type Claim struct {
	record.Record

	ClaimNumber     string
	ExternalClaimID *string

	PatientID  int64
	ProviderID *string
	FacilityID *string

	ClaimType ClaimType
	Status    ClaimStatus
	Priority  ClaimPriority

	ServiceDateFrom time.Time
	ServiceDateTo   *time.Time

	TotalChargesCents               int64
	TotalAllowedCents               *int64
	TotalPaidCents                  int64
	TotalPatientResponsibilityCents int64
	TotalAdjustmentsCents           int64

	PrimaryInsuranceID   *int64
	SecondaryInsuranceID *int64

	SubmittedDate *time.Time
	SubmittedBy   *string
	Clearinghouse *string

	ProcessedDate *time.Time
	PaidDate      *time.Time

	DiagnosisCodes []string
	PlaceOfService *string
	ClaimFrequency *string

	Notes               *string
	SpecialInstructions *string
}

const claimNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewClaimNumber generates a claim number in the CLM-YYYYMMDD-XXXXXX format,
// where XXXXXX is a uniformly random suffix. Uniqueness is enforced by the
// database; callers retry on ErrDuplicateClaimNumber.
func NewClaimNumber(now time.Time) string {
	// Rejection sampling keeps the suffix uniform: 252 is the largest
	// multiple of len(claimNumberAlphabet) below 256.
	const limit = 256 - 256%len(claimNumberAlphabet)
	suffix := make([]byte, 6)
	random := make([]byte, 1)
	for i := 0; i < len(suffix); {
		if _, err := rand.Read(random); err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		if int(random[0]) >= limit {
			continue
		}
		suffix[i] = claimNumberAlphabet[int(random[0])%len(claimNumberAlphabet)]
		i++
	}

	return fmt.Sprintf("CLM-%s-%s", now.Format("20060102"), suffix)
}

// OutstandingBalanceCents is the charge amount not yet covered by payments
// or adjustments.
func (c *Claim) OutstandingBalanceCents() int64 {
	return c.TotalChargesCents - c.TotalPaidCents - c.TotalAdjustmentsCents
}

// DaysInAR is the number of days the claim has been in accounts receivable.
// Paid claims report zero. The clock starts at submission, or at the first
// service date when the claim was never submitted.
func (c *Claim) DaysInAR(now time.Time) int {
	if c.Status == StatusPaid {
		return 0
	}

	start := c.ServiceDateFrom
	if c.SubmittedDate != nil {
		start = *c.SubmittedDate
	}

	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// PrimaryDiagnosis returns the first diagnosis code, or nil when none is set.
func (c *Claim) PrimaryDiagnosis() *string {
	if len(c.DiagnosisCodes) == 0 {
		return nil
	}
	return &c.DiagnosisCodes[0]
}

// Transition moves the claim to a new status and returns the history entry
// recording the change. Disallowed transitions fail with
// ErrInvalidStatusTransition and leave the claim unchanged.
//
// Submission, processing and payment timestamps are set when the
// corresponding status is first reached.
func (c *Claim) Transition(target ClaimStatus, notes *string, actor *string, now time.Time) (*ClaimStatusHistory, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, target)
	}
	if !c.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, c.Status, target)
	}

	now = now.UTC()
	switch target {
	case StatusSubmitted:
		c.SubmittedDate = &now
		c.SubmittedBy = actor
	case StatusAccepted, StatusRejected, StatusDenied:
		if c.ProcessedDate == nil {
			c.ProcessedDate = &now
		}
	case StatusPaid, StatusPartiallyPaid:
		c.PaidDate = &now
	}

	c.Status = target
	c.Touch(actor)

	return &ClaimStatusHistory{
		ClaimID:   c.ID,
		Status:    target,
		ChangedAt: now,
		ChangedBy: actor,
		Notes:     notes,
	}, nil
}

// ExternalView renders the claim for API responses. Claims hold no encrypted
// attributes, so the view is the same for every caller.
func (c *Claim) ExternalView(now time.Time) map[string]any {
	view := c.BaseView()
	view["claim_number"] = c.ClaimNumber
	view["external_claim_id"] = optionalValue(c.ExternalClaimID)
	view["provider_id"] = optionalValue(c.ProviderID)
	view["facility_id"] = optionalValue(c.FacilityID)
	view["claim_type"] = string(c.ClaimType)
	view["status"] = string(c.Status)
	view["priority"] = string(c.Priority)
	view["service_date_from"] = c.ServiceDateFrom.Format(time.DateOnly)
	view["service_date_to"] = optionalDate(c.ServiceDateTo)
	view["total_charges_cents"] = c.TotalChargesCents
	view["total_allowed_cents"] = optionalValue(c.TotalAllowedCents)
	view["total_paid_cents"] = c.TotalPaidCents
	view["total_patient_responsibility_cents"] = c.TotalPatientResponsibilityCents
	view["total_adjustments_cents"] = c.TotalAdjustmentsCents
	view["outstanding_balance_cents"] = c.OutstandingBalanceCents()
	view["days_in_ar"] = c.DaysInAR(now)
	view["submitted_date"] = optionalTime(c.SubmittedDate)
	view["submitted_by"] = optionalValue(c.SubmittedBy)
	view["clearinghouse"] = optionalValue(c.Clearinghouse)
	view["processed_date"] = optionalTime(c.ProcessedDate)
	view["paid_date"] = optionalTime(c.PaidDate)
	view["diagnosis_codes"] = c.DiagnosisCodes
	view["place_of_service"] = optionalValue(c.PlaceOfService)
	view["claim_frequency"] = optionalValue(c.ClaimFrequency)
	view["notes"] = optionalValue(c.Notes)
	view["special_instructions"] = optionalValue(c.SpecialInstructions)
	return view
}

func optionalValue[T any](value *T) any {
	if value == nil {
		return nil
	}
	return *value
}

func optionalDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.Format(time.DateOnly)
}

func optionalTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}
