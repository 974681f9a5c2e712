package domain

import (
	"github.com/allisson/medbilling/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors to
// provide context for cryptographic failures. The messages are deliberately
// generic: the underlying cipher error (which could act as a padding/format
// oracle) is never attached, and neither plaintext nor key material may ever
// appear in an error chain.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: aes-gcm (AES-256-GCM), chacha20-poly1305 (ChaCha20-Poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the encryption key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionFailed indicates a field value could not be encrypted.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInvalidInput, "failed to encrypt sensitive data")

	// ErrDecryptionFailed indicates a field value could not be decrypted.
	//
	// Causes include a key mismatch (the ciphertext was produced under a
	// different key), tampering (authentication failure), or a malformed
	// ciphertext envelope. The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "failed to decrypt sensitive data")
)
