package service

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewFieldCodec(t *testing.T) {
	t.Run("valid key and algorithm", func(t *testing.T) {
		codec, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.AESGCM, codec.Algorithm())
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewFieldCodec([]byte("short"), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewFieldCodec(newTestKey(t), cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestFieldCodecRoundTrip(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			codec, err := NewFieldCodec(newTestKey(t), alg)
			require.NoError(t, err)

			plaintexts := []string{
				"Jane",
				"123-45-6789",
				"José García-Müller",
				"日本語のテキスト",
				strings.Repeat("long value ", 10_000),
			}

			for _, plaintext := range plaintexts {
				envelope, err := codec.EncryptString(plaintext)
				require.NoError(t, err)
				assert.NotEqual(t, plaintext, envelope)
				assert.NotContains(t, envelope, plaintext)
				assert.True(t, strings.HasPrefix(envelope, "v1:"+string(alg)+":"))

				decrypted, err := codec.DecryptString(envelope)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			}
		})
	}
}

func TestFieldCodecEmptySentinel(t *testing.T) {
	codec, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)

	envelope, err := codec.EncryptString("")
	require.NoError(t, err)
	assert.Empty(t, envelope)

	plaintext, err := codec.DecryptString("")
	require.NoError(t, err)
	assert.Empty(t, plaintext)
}

func TestFieldCodecKeyIsolation(t *testing.T) {
	codec1, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)
	codec2, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)

	envelope, err := codec1.EncryptString("123-45-6789")
	require.NoError(t, err)

	// Wrong key must fail closed, never return a wrong plaintext.
	_, err = codec2.DecryptString(envelope)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.NotContains(t, err.Error(), "123-45-6789")
}

func TestFieldCodecCrossAlgorithmDecrypt(t *testing.T) {
	key := newTestKey(t)

	writer, err := NewFieldCodec(key, cryptoDomain.ChaCha20)
	require.NoError(t, err)
	reader, err := NewFieldCodec(key, cryptoDomain.AESGCM)
	require.NoError(t, err)

	envelope, err := writer.EncryptString("subscriber-42")
	require.NoError(t, err)

	// The reader honors the algorithm embedded in the envelope.
	plaintext, err := reader.DecryptString(envelope)
	require.NoError(t, err)
	assert.Equal(t, "subscriber-42", plaintext)
}

func TestFieldCodecTamperedCiphertext(t *testing.T) {
	codec, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)

	envelope, err := codec.EncryptString("Jane")
	require.NoError(t, err)

	// Flip a character in the ciphertext segment.
	tampered := envelope[:len(envelope)-2] + "A="
	_, err = codec.DecryptString(tampered)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestFieldCodecMalformedEnvelope(t *testing.T) {
	codec, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)

	malformed := []string{
		"not-an-envelope",
		"v2:aes-gcm:AAAA:BBBB",
		"v1:des:AAAA:BBBB",
		"v1:aes-gcm:%%%:BBBB",
		"v1:aes-gcm:AAAA:%%%",
		"v1:aes-gcm:AAAA",
	}
	for _, envelope := range malformed {
		_, err := codec.DecryptString(envelope)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "envelope: %s", envelope)
	}
}

func TestFieldCodecNonceUniqueness(t *testing.T) {
	codec, err := NewFieldCodec(newTestKey(t), cryptoDomain.AESGCM)
	require.NoError(t, err)

	first, err := codec.EncryptString("same plaintext")
	require.NoError(t, err)
	second, err := codec.EncryptString("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
