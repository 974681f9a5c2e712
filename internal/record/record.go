// Package record provides the persistence base shared by every domain entity:
// common lifecycle fields (identity, timestamps, soft delete, audit actor) and
// the encrypted-field wrapper used for PHI attributes.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Record holds the lifecycle fields every persisted entity embeds.
//
// ID is the storage-assigned sequential identity and must never leave the
// audit boundary; ExternalRef is the non-sequential token used whenever an
// identifier is exposed externally.
type Record struct {
	// ID is the process-unique integer identity assigned by the storage layer
	// at insert time. Immutable after creation.
	ID int64
	// ExternalRef is a random UUID assigned at creation, immutable, used for
	// all external references so sequential IDs are never exposed.
	ExternalRef uuid.UUID
	// CreatedAt is the UTC creation timestamp. Immutable.
	CreatedAt time.Time
	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time
	// CreatedBy identifies the acting principal at creation; nil for
	// system-initiated actions.
	CreatedBy *string
	// UpdatedBy identifies the principal of the most recent mutation.
	UpdatedBy *string
	// IsActive is false once the record is soft-deleted. Soft-deleted records
	// remain retrievable for audit and retention but are excluded from normal
	// queries.
	IsActive bool
}

// New initializes the lifecycle fields for a freshly created entity. The
// integer ID is left zero; the storage layer assigns it at insert time.
func New(actor *string) Record {
	now := time.Now().UTC()
	return Record{
		ExternalRef: uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		IsActive:    true,
	}
}

// Touch refreshes UpdatedAt and, when an actor is given, UpdatedBy.
// Call it on every mutation.
func (r *Record) Touch(actor *string) {
	r.UpdatedAt = time.Now().UTC()
	if actor != nil {
		r.UpdatedBy = actor
	}
}

// SoftDelete marks the record inactive without physically removing it.
// Claims and patient history must stay retrievable for the retention window
// even after deletion.
func (r *Record) SoftDelete(actor *string) {
	r.IsActive = false
	r.Touch(actor)
}

// BaseView returns the lifecycle fields as a serializable mapping. The
// sequential ID is deliberately omitted; only ExternalRef identifies the
// record externally. Timestamps are rendered as ISO-8601 strings.
func (r *Record) BaseView() map[string]any {
	view := map[string]any{
		"external_reference": r.ExternalRef.String(),
		"created_at":         r.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":         r.UpdatedAt.Format(time.RFC3339Nano),
		"is_active":          r.IsActive,
	}
	view["created_by"] = optionalString(r.CreatedBy)
	view["updated_by"] = optionalString(r.UpdatedBy)
	return view
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
