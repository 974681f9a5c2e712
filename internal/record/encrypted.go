package record

import (
	"database/sql/driver"
	"fmt"

	"github.com/allisson/medbilling/internal/errors"

	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
)

// EncryptedString stores a sensitive string attribute as an encryption
// envelope. The plaintext is never retained on the struct: Seal encrypts
// immediately and keeps only the envelope, Reveal decrypts on demand. The
// zero value represents an absent (null) attribute.
//
// EncryptedString implements sql.Scanner and driver.Valuer so domain structs
// can be scanned from and bound to database rows directly; the database only
// ever sees the envelope text.
type EncryptedString struct {
	envelope string
}

// Seal encrypts value and stores the resulting envelope. An empty value
// clears the field, mapping to NULL in storage.
func (e *EncryptedString) Seal(codec *cryptoService.FieldCodec, value string) error {
	if value == "" {
		e.envelope = ""
		return nil
	}
	envelope, err := codec.EncryptString(value)
	if err != nil {
		return err
	}
	e.envelope = envelope
	return nil
}

// Reveal decrypts the stored envelope and returns the plaintext. An unset
// field reveals as the empty string with no error.
func (e EncryptedString) Reveal(codec *cryptoService.FieldCodec) (string, error) {
	if e.envelope == "" {
		return "", nil
	}
	return codec.DecryptString(e.envelope)
}

// Clear removes the stored ciphertext, setting the attribute to null.
func (e *EncryptedString) Clear() {
	e.envelope = ""
}

// IsSet reports whether the field holds a value.
func (e EncryptedString) IsSet() bool {
	return e.envelope != ""
}

// Envelope returns the raw stored envelope. It is exposed for audit and
// diagnostics; callers must never log it alongside key material.
func (e EncryptedString) Envelope() string {
	return e.envelope
}

// Scan implements sql.Scanner. NULL scans to the unset state.
func (e *EncryptedString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		e.envelope = ""
	case string:
		e.envelope = v
	case []byte:
		e.envelope = string(v)
	default:
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("cannot scan %T into encrypted field", src))
	}
	return nil
}

// Value implements driver.Valuer. An unset field binds as NULL.
func (e EncryptedString) Value() (driver.Value, error) {
	if e.envelope == "" {
		return nil, nil
	}
	return e.envelope, nil
}
