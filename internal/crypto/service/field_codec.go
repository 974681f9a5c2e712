package service

import (
	"encoding/base64"
	"strings"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
)

// envelopeVersion prefixes every ciphertext produced by the codec. Bump it if
// the envelope layout ever changes; decryption rejects unknown versions.
const envelopeVersion = "v1"

// envelopeSeparator joins the envelope segments: version, algorithm, nonce, ciphertext.
const envelopeSeparator = ":"

// FieldCodec performs authenticated encryption of individual PHI field values.
//
// Every ciphertext is a self-describing envelope:
//
//	v1:<algorithm>:<base64 nonce>:<base64 ciphertext+tag>
//
// so decryption needs only the envelope and the process key. The embedded
// algorithm is honored on decrypt, which lets an operator switch the write
// algorithm between restarts without migrating stored records.
//
// The codec is constructed once at startup with the process-wide key and
// passed to every component that needs it. The key is never read from ambient
// global state, never logged, and never included in any error.
//
// The codec is stateless per call and safe for concurrent use.
type FieldCodec struct {
	key     []byte
	alg     cryptoDomain.Algorithm
	manager AEADManager
	cipher  AEAD
}

// NewFieldCodec creates a codec that writes ciphertexts under the given
// algorithm. The key must be exactly 32 bytes; the codec keeps its own copy so
// the caller may zero the original.
func NewFieldCodec(key []byte, alg cryptoDomain.Algorithm) (*FieldCodec, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if !alg.Valid() {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)

	manager := NewAEADManager()
	cipher, err := manager.CreateCipher(keyCopy, alg)
	if err != nil {
		return nil, err
	}

	return &FieldCodec{
		key:     keyCopy,
		alg:     alg,
		manager: manager,
		cipher:  cipher,
	}, nil
}

// Algorithm returns the algorithm used for newly written ciphertexts.
func (c *FieldCodec) Algorithm() cryptoDomain.Algorithm {
	return c.alg
}

// EncryptString encrypts a single field value and returns its envelope.
//
// An empty plaintext maps through unchanged: emptiness is never encrypted, so
// an absent value stays absent in storage. (The presence of a ciphertext
// therefore reveals that the field is non-empty; a known, accepted leak.)
//
// On failure the returned error carries no plaintext and no cipher detail,
// only the generic ErrEncryptionFailed sentinel.
func (c *FieldCodec) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	ciphertext, nonce, err := c.cipher.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", cryptoDomain.ErrEncryptionFailed
	}

	parts := []string{
		envelopeVersion,
		string(c.alg),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ciphertext),
	}
	return strings.Join(parts, envelopeSeparator), nil
}

// DecryptString opens an envelope and returns the plaintext field value.
//
// An empty envelope maps through unchanged, mirroring EncryptString.
//
// Fails closed with ErrDecryptionFailed on a malformed envelope, an unknown
// version or algorithm, a key mismatch, or tampering. The error never
// discloses which of those occurred.
func (c *FieldCodec) DecryptString(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	parts := strings.SplitN(envelope, envelopeSeparator, 4)
	if len(parts) != 4 || parts[0] != envelopeVersion {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	alg := cryptoDomain.Algorithm(parts[1])
	if !alg.Valid() {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	cipher := c.cipher
	if alg != c.alg {
		cipher, err = c.manager.CreateCipher(c.key, alg)
		if err != nil {
			return "", cryptoDomain.ErrDecryptionFailed
		}
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
