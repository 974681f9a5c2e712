package domain

import (
	"time"
)

// ClaimStatusHistory records a single status change of a claim. Entries are
// append-only and kept for the life of the claim.
type ClaimStatusHistory struct {
	ID        int64
	ClaimID   int64
	Status    ClaimStatus
	ChangedAt time.Time
	ChangedBy *string
	Notes     *string
}

// View renders the history entry for API responses.
func (h *ClaimStatusHistory) View() map[string]any {
	return map[string]any{
		"status":     string(h.Status),
		"changed_at": h.ChangedAt.UTC().Format(time.RFC3339Nano),
		"changed_by": optionalValue(h.ChangedBy),
		"notes":      optionalValue(h.Notes),
	}
}
