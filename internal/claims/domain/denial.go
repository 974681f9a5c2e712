package domain

import (
	"time"

	"github.com/allisson/medbilling/internal/record"
)

// ClaimDenial records a payer denial against a claim, with appeal tracking.
type ClaimDenial struct {
	record.Record

	ClaimID int64

	DenialCode        string
	DenialDescription *string
	DenialCategory    *DenialCategory

	DeniedAmountCents int64

	DenialDate     time.Time
	AppealDeadline *time.Time

	IsResolved      bool
	ResolutionNotes *string
	ResolvedDate    *time.Time
	ResolvedBy      *string

	AppealFiled   bool
	AppealDate    *time.Time
	AppealOutcome *string
}

// DaysToAppealDeadline is the number of days until the appeal deadline, or
// nil when no deadline is set. Past deadlines yield negative values.
func (d *ClaimDenial) DaysToAppealDeadline(now time.Time) *int {
	if d.AppealDeadline == nil {
		return nil
	}
	days := int(d.AppealDeadline.Sub(now).Hours() / 24)
	return &days
}

// AppealOverdue reports whether the appeal deadline passed without an appeal
// being filed.
func (d *ClaimDenial) AppealOverdue(now time.Time) bool {
	if d.AppealFiled || d.AppealDeadline == nil {
		return false
	}
	return now.After(*d.AppealDeadline)
}

// Resolve marks the denial as resolved.
func (d *ClaimDenial) Resolve(notes *string, actor *string, now time.Time) {
	now = now.UTC()
	d.IsResolved = true
	d.ResolutionNotes = notes
	d.ResolvedDate = &now
	d.ResolvedBy = actor
	d.Touch(actor)
}

// FileAppeal records that an appeal was filed for this denial.
func (d *ClaimDenial) FileAppeal(actor *string, now time.Time) {
	now = now.UTC()
	d.AppealFiled = true
	d.AppealDate = &now
	d.Touch(actor)
}

// View renders the denial for API responses.
func (d *ClaimDenial) View(now time.Time) map[string]any {
	view := d.BaseView()
	view["denial_code"] = d.DenialCode
	view["denial_description"] = optionalValue(d.DenialDescription)
	if d.DenialCategory != nil {
		view["denial_category"] = string(*d.DenialCategory)
	} else {
		view["denial_category"] = nil
	}
	view["denied_amount_cents"] = d.DeniedAmountCents
	view["denial_date"] = d.DenialDate.Format(time.DateOnly)
	view["appeal_deadline"] = optionalDate(d.AppealDeadline)
	view["days_to_appeal_deadline"] = optionalValue(d.DaysToAppealDeadline(now))
	view["appeal_overdue"] = d.AppealOverdue(now)
	view["is_resolved"] = d.IsResolved
	view["resolution_notes"] = optionalValue(d.ResolutionNotes)
	view["resolved_date"] = optionalDate(d.ResolvedDate)
	view["resolved_by"] = optionalValue(d.ResolvedBy)
	view["appeal_filed"] = d.AppealFiled
	view["appeal_date"] = optionalDate(d.AppealDate)
	view["appeal_outcome"] = optionalValue(d.AppealOutcome)
	return view
}
