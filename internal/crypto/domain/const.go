// Package domain defines the core types for field-level PHI encryption.
package domain

// Algorithm identifies the AEAD cipher used to encrypt a field value.
// The algorithm name is embedded in every stored ciphertext, so records
// encrypted under either cipher remain readable after a configuration change.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, the default algorithm.
	AESGCM Algorithm = "aes-gcm"
	// ChaCha20 is ChaCha20-Poly1305, preferred on hosts without AES hardware acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required key length in bytes for both supported algorithms.
const KeySize = 32

// Valid reports whether the algorithm is one of the supported AEAD ciphers.
func (a Algorithm) Valid() bool {
	switch a {
	case AESGCM, ChaCha20:
		return true
	}
	return false
}
