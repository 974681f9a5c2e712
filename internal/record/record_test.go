package record

import (
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/medbilling/internal/crypto/domain"
	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
	"github.com/allisson/medbilling/internal/phi"
)

func newTestCodec(t *testing.T) *cryptoService.FieldCodec {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	codec, err := cryptoService.NewFieldCodec(key, cryptoDomain.AESGCM)
	require.NoError(t, err)
	return codec
}

func strPtr(s string) *string {
	return &s
}

func TestNew(t *testing.T) {
	t.Run("initializes lifecycle fields", func(t *testing.T) {
		before := time.Now().UTC()
		rec := New(strPtr("clerk@example.com"))
		after := time.Now().UTC()

		assert.Equal(t, int64(0), rec.ID)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.ExternalRef.String())
		assert.True(t, rec.IsActive)
		assert.Equal(t, "clerk@example.com", *rec.CreatedBy)
		assert.Equal(t, "clerk@example.com", *rec.UpdatedBy)
		assert.False(t, rec.CreatedAt.Before(before))
		assert.False(t, rec.CreatedAt.After(after))
		assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	})

	t.Run("system actions have no actor", func(t *testing.T) {
		rec := New(nil)
		assert.Nil(t, rec.CreatedBy)
		assert.Nil(t, rec.UpdatedBy)
	})

	t.Run("external references are unique", func(t *testing.T) {
		a := New(nil)
		b := New(nil)
		assert.NotEqual(t, a.ExternalRef, b.ExternalRef)
	})
}

func TestRecordTouch(t *testing.T) {
	rec := New(strPtr("creator"))
	created := rec.CreatedAt
	time.Sleep(time.Millisecond)

	rec.Touch(strPtr("editor"))

	assert.Equal(t, created, rec.CreatedAt)
	assert.True(t, rec.UpdatedAt.After(created))
	assert.Equal(t, "creator", *rec.CreatedBy)
	assert.Equal(t, "editor", *rec.UpdatedBy)

	t.Run("nil actor keeps previous updater", func(t *testing.T) {
		rec.Touch(nil)
		assert.Equal(t, "editor", *rec.UpdatedBy)
	})
}

func TestRecordSoftDelete(t *testing.T) {
	rec := New(strPtr("creator"))
	time.Sleep(time.Millisecond)

	rec.SoftDelete(strPtr("admin"))

	assert.False(t, rec.IsActive)
	assert.Equal(t, "admin", *rec.UpdatedBy)
	assert.True(t, rec.UpdatedAt.After(rec.CreatedAt))
}

func TestRecordBaseView(t *testing.T) {
	rec := New(strPtr("creator"))
	view := rec.BaseView()

	assert.Equal(t, rec.ExternalRef.String(), view["external_reference"])
	assert.Equal(t, "creator", view["created_by"])
	assert.Equal(t, true, view["is_active"])
	assert.NotContains(t, view, "id")

	parsed, err := time.Parse(time.RFC3339Nano, view["created_at"].(string))
	require.NoError(t, err)
	assert.Equal(t, rec.CreatedAt, parsed)

	t.Run("nil actors serialize as null", func(t *testing.T) {
		sys := New(nil)
		view := sys.BaseView()
		assert.Nil(t, view["created_by"])
		assert.Nil(t, view["updated_by"])
	})
}

func TestEncryptedString(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("seal stores ciphertext not plaintext", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "Jane"))

		assert.True(t, field.IsSet())
		assert.NotEqual(t, "Jane", field.Envelope())
		assert.NotContains(t, field.Envelope(), "Jane")
		assert.True(t, strings.HasPrefix(field.Envelope(), "v1:"))
	})

	t.Run("reveal round-trips", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "123-45-6789"))

		plaintext, err := field.Reveal(codec)
		require.NoError(t, err)
		assert.Equal(t, "123-45-6789", plaintext)
	})

	t.Run("empty value clears the field", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "value"))
		require.NoError(t, field.Seal(codec, ""))

		assert.False(t, field.IsSet())
		plaintext, err := field.Reveal(codec)
		require.NoError(t, err)
		assert.Equal(t, "", plaintext)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		var field EncryptedString
		field.Clear()
		field.Clear()
		assert.False(t, field.IsSet())
	})

	t.Run("reveal with wrong key fails closed", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "secret"))

		other := newTestCodec(t)
		_, err := field.Reveal(other)
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.NotContains(t, err.Error(), "secret")
	})
}

func TestEncryptedStringDatabaseRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("value and scan carry the envelope", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "555-0100"))

		value, err := field.Value()
		require.NoError(t, err)

		var restored EncryptedString
		require.NoError(t, restored.Scan(value))

		plaintext, err := restored.Reveal(codec)
		require.NoError(t, err)
		assert.Equal(t, "555-0100", plaintext)
	})

	t.Run("unset field binds as null", func(t *testing.T) {
		var field EncryptedString
		value, err := field.Value()
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("null scans to unset", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "value"))
		require.NoError(t, field.Scan(nil))
		assert.False(t, field.IsSet())
	})

	t.Run("bytes scan like strings", func(t *testing.T) {
		var field EncryptedString
		require.NoError(t, field.Seal(codec, "value"))

		var restored EncryptedString
		require.NoError(t, restored.Scan([]byte(field.Envelope())))
		assert.Equal(t, field.Envelope(), restored.Envelope())
	})

	t.Run("unsupported type errors", func(t *testing.T) {
		var field EncryptedString
		assert.Error(t, field.Scan(42))
	})
}

func TestRevealField(t *testing.T) {
	codec := newTestCodec(t)

	var field EncryptedString
	require.NoError(t, field.Seal(codec, "Jane"))

	t.Run("redacted without disclosure", func(t *testing.T) {
		value, err := RevealField(codec, field, false)
		require.NoError(t, err)
		assert.Equal(t, phi.Redacted, value)
	})

	t.Run("unset field is redacted too", func(t *testing.T) {
		var empty EncryptedString
		value, err := RevealField(codec, empty, false)
		require.NoError(t, err)
		assert.Equal(t, phi.Redacted, value)
	})

	t.Run("plaintext with disclosure", func(t *testing.T) {
		value, err := RevealField(codec, field, true)
		require.NoError(t, err)
		assert.Equal(t, "Jane", value)
	})

	t.Run("unset field discloses as null", func(t *testing.T) {
		var empty EncryptedString
		value, err := RevealField(codec, empty, true)
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestRevealFields(t *testing.T) {
	codec := newTestCodec(t)

	var first, last EncryptedString
	require.NoError(t, first.Seal(codec, "Jane"))
	require.NoError(t, last.Seal(codec, "Doe"))

	t.Run("populates all fields", func(t *testing.T) {
		view := map[string]any{}
		err := RevealFields(view, codec, map[string]EncryptedString{
			"first_name": first,
			"last_name":  last,
		}, true)
		require.NoError(t, err)
		assert.Equal(t, "Jane", view["first_name"])
		assert.Equal(t, "Doe", view["last_name"])
	})

	t.Run("one corrupt field does not block the others", func(t *testing.T) {
		var corrupt EncryptedString
		require.NoError(t, corrupt.Scan("v1:aes-gcm:!!!:!!!"))

		view := map[string]any{}
		err := RevealFields(view, codec, map[string]EncryptedString{
			"first_name":             first,
			"social_security_number": corrupt,
		}, true)

		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Contains(t, err.Error(), "social_security_number")
		assert.Equal(t, "Jane", view["first_name"])
		assert.Nil(t, view["social_security_number"])
	})
}
