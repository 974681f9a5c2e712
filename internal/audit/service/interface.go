// Package service provides technical services for the audit trail: event
// signing for tamper evidence and the local fallback channel used when the
// primary store is unavailable.
package service

import (
	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
)

// EventSigner defines signing and verification of audit events.
// Implementations must derive the signing key from the master key so that
// signing and field encryption never share key material directly.
type EventSigner interface {
	// Sign generates a signature over the event's canonical representation.
	// Returns the raw signature bytes or an error if signing fails.
	Sign(masterKey []byte, event *auditDomain.AuditEvent) ([]byte, error)

	// Verify checks the event's stored signature against a freshly computed
	// one. Returns nil if valid, ErrSignatureInvalid if the event was
	// altered after emission.
	Verify(masterKey []byte, event *auditDomain.AuditEvent) error
}

// FallbackWriter defines the durable local channel security-critical events
// fall over to when the primary store rejects them. Implementations must be
// append-only; a fallback that can rewrite history defeats its purpose.
type FallbackWriter interface {
	// Write appends the event to the fallback channel, annotated with the
	// primary failure that triggered the fallback.
	Write(event *auditDomain.AuditEvent, cause error) error
}
