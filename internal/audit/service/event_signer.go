package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/medbilling/internal/audit/domain"
	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
)

type eventSigner struct{}

// NewEventSigner creates a new HMAC-based audit event signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewEventSigner() EventSigner {
	return &eventSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// master key, separating signing key usage from encryption key usage.
// Info parameter: "audit-event-signing-v1" (versioned for future algorithm changes).
func (e *eventSigner) deriveSigningKey(masterKey []byte) ([]byte, error) {
	info := []byte("audit-event-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, masterKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeEvent converts an audit event to its canonical byte
// representation for signing. Variable-length fields are length-prefixed to
// prevent ambiguity; optional fields encode as zero-length when absent.
func (e *eventSigner) canonicalizeEvent(event *auditDomain.AuditEvent) ([]byte, error) {
	buf := make([]byte, 0, 1024)

	buf = append(buf, event.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(string(event.EventType)))
	buf = appendLengthPrefixed(buf, optionalBytes(event.ActorID))
	buf = appendLengthPrefixed(buf, []byte(event.ResourceType))
	buf = appendLengthPrefixed(buf, []byte(event.ResourceID))

	if event.Success {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	if event.Details != nil {
		detailsBytes, err := json.Marshal(event.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal details: %w", err)
		}
		buf = appendLengthPrefixed(buf, detailsBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	buf = appendLengthPrefixed(buf, optionalBytes(event.ClientIP))
	buf = appendLengthPrefixed(buf, optionalBytes(event.ClientAgent))

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(event.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

func optionalBytes(s *string) []byte {
	if s == nil {
		return nil
	}
	return []byte(*s)
}

// Sign generates an HMAC-SHA256 signature for the audit event.
// Returns the 32-byte signature or an error if signing fails.
func (e *eventSigner) Sign(masterKey []byte, event *auditDomain.AuditEvent) ([]byte, error) {
	signingKey, err := e.deriveSigningKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	canonical, err := e.canonicalizeEvent(event)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the audit event signature is valid.
// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
func (e *eventSigner) Verify(masterKey []byte, event *auditDomain.AuditEvent) error {
	expectedSig, err := e.Sign(masterKey, event)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(event.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}
