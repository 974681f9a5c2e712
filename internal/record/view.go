package record

import (
	stderrors "errors"

	"github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/phi"

	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
)

// RevealField resolves an encrypted attribute for an external view.
//
// When includePHI is false the fixed redaction marker is returned without
// touching the ciphertext, so redacted views never exercise the decryption
// path. When includePHI is true the field is decrypted; an unset field
// resolves to nil so it serializes as JSON null.
//
// A decryption failure yields a nil value and a non-nil error so callers can
// surface the failure without losing the rest of the view.
func RevealField(codec *cryptoService.FieldCodec, field EncryptedString, includePHI bool) (any, error) {
	if !includePHI {
		return phi.Redacted, nil
	}
	if !field.IsSet() {
		return nil, nil
	}
	plaintext, err := field.Reveal(codec)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// RevealFields resolves a set of named encrypted attributes into view,
// applying RevealField per entry. Fields that fail to decrypt are set to nil
// and their errors joined, so one corrupt field never blocks the others.
// The joined error is annotated with the field names that failed, never with
// ciphertext or key material.
func RevealFields(view map[string]any, codec *cryptoService.FieldCodec, fields map[string]EncryptedString, includePHI bool) error {
	var errs []error
	for name, field := range fields {
		value, err := RevealField(codec, field, includePHI)
		if err != nil {
			errs = append(errs, errors.Wrap(err, name))
		}
		view[name] = value
	}
	return stderrors.Join(errs...)
}
