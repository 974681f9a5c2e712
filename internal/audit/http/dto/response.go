// Package dto provides response types for audit trail HTTP endpoints.
package dto

import (
	"time"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
)

// AuditEventResponse represents an audit event in API responses. The
// signature is reported as a presence flag only; raw signature bytes stay
// server side.
type AuditEventResponse struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ActorID      *string        `json:"actor_id"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Success      bool           `json:"success"`
	Details      map[string]any `json:"details,omitempty"`
	ClientIP     *string        `json:"client_ip"`
	ClientAgent  *string        `json:"client_agent"`
	Signed       bool           `json:"signed"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MapAuditEventToResponse converts a domain audit event to an API response.
func MapAuditEventToResponse(event *auditDomain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:           event.ID.String(),
		EventType:    string(event.EventType),
		ActorID:      event.ActorID,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Success:      event.Success,
		Details:      event.Details,
		ClientIP:     event.ClientIP,
		ClientAgent:  event.ClientAgent,
		Signed:       len(event.Signature) > 0,
		CreatedAt:    event.CreatedAt,
	}
}

// ListAuditEventsResponse represents a paginated list of audit events.
type ListAuditEventsResponse struct {
	Data []AuditEventResponse `json:"data"`
}

// MapAuditEventsToListResponse converts domain audit events to a list API response.
func MapAuditEventsToListResponse(events []*auditDomain.AuditEvent) ListAuditEventsResponse {
	eventResponses := make([]AuditEventResponse, 0, len(events))
	for _, event := range events {
		eventResponses = append(eventResponses, MapAuditEventToResponse(event))
	}
	return ListAuditEventsResponse{
		Data: eventResponses,
	}
}
