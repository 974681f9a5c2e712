// Package domain defines the audit trail entities for the billing platform.
// Audit events record who did what to which resource, are immutable once
// emitted, and carry an HMAC signature so tampering is detectable.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies an audit event. The set covers the agent task
// lifecycle plus the data access operations regulators care about.
type EventType string

const (
	EventTaskStarted   EventType = "task_started"
	EventTaskCompleted EventType = "task_completed"
	EventTaskFailed    EventType = "task_failed"
	EventAccess        EventType = "access"
	EventModification  EventType = "modification"
	EventDeletion      EventType = "deletion"
	EventSubmission    EventType = "submission"
	EventLogin         EventType = "login"
	EventLogout        EventType = "logout"
)

// Valid reports whether the event type is one of the declared values.
func (e EventType) Valid() bool {
	switch e {
	case EventTaskStarted, EventTaskCompleted, EventTaskFailed,
		EventAccess, EventModification, EventDeletion, EventSubmission,
		EventLogin, EventLogout:
		return true
	}
	return false
}

// SecurityCritical reports whether losing this event would be a compliance
// incident. Critical events must reach durable storage or the fallback
// channel; the emitting operation fails otherwise.
func (e EventType) SecurityCritical() bool {
	switch e {
	case EventLogin, EventLogout, EventAccess, EventDeletion, EventSubmission:
		return true
	}
	return false
}

// AuditEvent is one immutable entry in the audit trail. Details passes
// through the PHI redaction filter before the event is ever persisted, so a
// stored event never contains protected health information.
type AuditEvent struct {
	ID           uuid.UUID
	EventType    EventType
	ActorID      *string
	ResourceType string
	ResourceID   string
	Success      bool
	Details      map[string]any
	ClientIP     *string
	ClientAgent  *string
	Signature    []byte
	CreatedAt    time.Time
}

// EmitEventInput carries the caller-supplied fields of a new audit event.
// ID, signature and timestamp are assigned at emission time. Details may
// contain anything; the emitter redacts PHI field names before persistence.
type EmitEventInput struct {
	EventType    EventType
	ActorID      *string
	ResourceType string
	ResourceID   string
	Success      bool
	Details      map[string]any
	ClientIP     *string
	ClientAgent  *string
}
