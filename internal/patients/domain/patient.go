// Package domain defines the patient entities of the billing platform.
// Every directly identifying attribute is held as an encrypted field; the
// struct never contains resident plaintext PHI.
package domain

import (
	"fmt"
	"strings"
	"time"

	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
	"github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/record"
)

// Patient is a patient master record. Identifying attributes are encrypted
// columns; demographics that cannot identify a person on their own (gender,
// marital status, language) are stored in the clear for reporting.
type Patient struct {
	record.Record

	// MedicalRecordNumber is the human-facing unique identifier in the
	// MRN-YYYYMMDD-XXXX format. Assigned at creation, immutable.
	MedicalRecordNumber string

	// Encrypted identity fields.
	FirstName            record.EncryptedString
	LastName             record.EncryptedString
	MiddleName           record.EncryptedString
	SocialSecurityNumber record.EncryptedString
	DateOfBirth          record.EncryptedString

	// Encrypted contact fields.
	Phone            record.EncryptedString
	Email            record.EncryptedString
	EmergencyContact record.EncryptedString
	EmergencyPhone   record.EncryptedString

	// Encrypted address fields.
	AddressLine1 record.EncryptedString
	AddressLine2 record.EncryptedString
	City         record.EncryptedString
	State        record.EncryptedString
	ZipCode      record.EncryptedString
	Country      record.EncryptedString

	// Plain demographics.
	Gender            *Gender
	MaritalStatus     *MaritalStatus
	PreferredLanguage *string

	// Status flags.
	IsDeceased   bool
	DeceasedDate *time.Time

	// Communication preferences.
	PreferredCommunication string
	AllowSMS               bool
	AllowEmail             bool

	// FinancialClass groups patients for billing workflows
	// (self-pay, insurance, charity).
	FinancialClass *string
}

// phiFieldNames lists the logical names of the encrypted attributes, in the
// order they appear in external views.
var phiFieldNames = []string{
	"first_name", "last_name", "middle_name", "social_security_number",
	"date_of_birth", "phone", "email", "emergency_contact", "emergency_phone",
	"address_line_1", "address_line_2", "city", "state", "zip_code", "country",
}

// PHIFieldNames returns the logical names of the patient's encrypted
// attributes. The returned slice is a copy.
func PHIFieldNames() []string {
	names := make([]string, len(phiFieldNames))
	copy(names, phiFieldNames)
	return names
}

// phiField maps a logical attribute name to its encrypted field.
// Returns nil for names outside the declared set.
func (p *Patient) phiField(name string) *record.EncryptedString {
	switch name {
	case "first_name":
		return &p.FirstName
	case "last_name":
		return &p.LastName
	case "middle_name":
		return &p.MiddleName
	case "social_security_number":
		return &p.SocialSecurityNumber
	case "date_of_birth":
		return &p.DateOfBirth
	case "phone":
		return &p.Phone
	case "email":
		return &p.Email
	case "emergency_contact":
		return &p.EmergencyContact
	case "emergency_phone":
		return &p.EmergencyPhone
	case "address_line_1":
		return &p.AddressLine1
	case "address_line_2":
		return &p.AddressLine2
	case "city":
		return &p.City
	case "state":
		return &p.State
	case "zip_code":
		return &p.ZipCode
	case "country":
		return &p.Country
	}
	return nil
}

// SetAttribute encrypts value into the named PHI attribute. An empty value
// clears the attribute. Returns ErrUnknownAttribute for names outside the
// declared set; silently ignoring a misspelled field in a billing system is
// a correctness hazard, not a convenience.
func (p *Patient) SetAttribute(codec *cryptoService.FieldCodec, name, value string) error {
	field := p.phiField(name)
	if field == nil {
		return errors.Wrap(errors.ErrUnknownAttribute, name)
	}
	return field.Seal(codec, value)
}

// GetAttribute decrypts and returns the named PHI attribute. An unset
// attribute returns the empty string. Returns ErrUnknownAttribute for names
// outside the declared set.
func (p *Patient) GetAttribute(codec *cryptoService.FieldCodec, name string) (string, error) {
	field := p.phiField(name)
	if field == nil {
		return "", errors.Wrap(errors.ErrUnknownAttribute, name)
	}
	return field.Reveal(codec)
}

// FullName joins the decrypted first, middle and last names, skipping absent
// parts. Callers must treat the result as PHI.
func (p *Patient) FullName(codec *cryptoService.FieldCodec) (string, error) {
	parts := make([]string, 0, 3)
	for _, field := range []record.EncryptedString{p.FirstName, p.MiddleName, p.LastName} {
		value, err := field.Reveal(codec)
		if err != nil {
			return "", err
		}
		if value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " "), nil
}

// Age computes the patient's age in whole years at the given reference time.
// Returns nil if the date of birth is absent or not a YYYY-MM-DD date.
func (p *Patient) Age(codec *cryptoService.FieldCodec, now time.Time) (*int, error) {
	value, err := p.DateOfBirth.Reveal(codec)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	dob, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, nil
	}

	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years, nil
}

// ExternalView builds the serializable representation of the patient.
//
// With includePHI false every encrypted attribute renders as the fixed
// redaction marker and nothing is decrypted. With includePHI true the
// attributes decrypt; a corrupt field renders as null and the joined error
// reports which fields failed, so one bad ciphertext never hides the rest of
// the record.
func (p *Patient) ExternalView(codec *cryptoService.FieldCodec, includePHI bool) (map[string]any, error) {
	view := p.BaseView()
	view["medical_record_number"] = p.MedicalRecordNumber
	view["gender"] = optionalEnum(p.Gender)
	view["marital_status"] = optionalEnum(p.MaritalStatus)
	view["preferred_language"] = optionalValue(p.PreferredLanguage)
	view["is_deceased"] = p.IsDeceased
	view["preferred_communication"] = p.PreferredCommunication
	view["allow_sms"] = p.AllowSMS
	view["allow_email"] = p.AllowEmail
	view["financial_class"] = optionalValue(p.FinancialClass)
	if p.DeceasedDate != nil {
		view["deceased_date"] = p.DeceasedDate.Format("2006-01-02")
	} else {
		view["deceased_date"] = nil
	}

	fields := make(map[string]record.EncryptedString, len(phiFieldNames))
	for _, name := range phiFieldNames {
		fields[name] = *p.phiField(name)
	}

	err := record.RevealFields(view, codec, fields, includePHI)
	return view, err
}

// ApplyUpdate applies a partial update keyed by logical attribute name.
// PHI names encrypt their values; plain attributes assign directly. Any name
// outside the entity's declared attributes fails the whole update with
// ErrUnknownAttribute before anything is modified.
func (p *Patient) ApplyUpdate(codec *cryptoService.FieldCodec, updates map[string]any, actor *string) error {
	for name := range updates {
		if p.phiField(name) == nil && !isPlainPatientAttribute(name) {
			return errors.Wrap(errors.ErrUnknownAttribute, name)
		}
	}

	for name, raw := range updates {
		if field := p.phiField(name); field != nil {
			value, err := stringValue(name, raw)
			if err != nil {
				return err
			}
			if err := field.Seal(codec, value); err != nil {
				return err
			}
			continue
		}
		if err := p.applyPlainUpdate(name, raw); err != nil {
			return err
		}
	}

	p.Touch(actor)
	return nil
}

func isPlainPatientAttribute(name string) bool {
	switch name {
	case "gender", "marital_status", "preferred_language", "is_deceased",
		"deceased_date", "preferred_communication", "allow_sms", "allow_email",
		"financial_class":
		return true
	}
	return false
}

func (p *Patient) applyPlainUpdate(name string, raw any) error {
	switch name {
	case "gender":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		if value == "" {
			p.Gender = nil
			return nil
		}
		gender := Gender(value)
		if !gender.Valid() {
			return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("invalid gender: %s", value))
		}
		p.Gender = &gender
	case "marital_status":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		if value == "" {
			p.MaritalStatus = nil
			return nil
		}
		status := MaritalStatus(value)
		if !status.Valid() {
			return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("invalid marital status: %s", value))
		}
		p.MaritalStatus = &status
	case "preferred_language":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		p.PreferredLanguage = optionalString(value)
	case "is_deceased":
		value, ok := raw.(bool)
		if !ok {
			return errors.Wrap(errors.ErrInvalidInput, "is_deceased must be a boolean")
		}
		p.IsDeceased = value
	case "deceased_date":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		if value == "" {
			p.DeceasedDate = nil
			return nil
		}
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidInput, "deceased_date must be a YYYY-MM-DD date")
		}
		p.DeceasedDate = &date
	case "preferred_communication":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		p.PreferredCommunication = value
	case "allow_sms":
		value, ok := raw.(bool)
		if !ok {
			return errors.Wrap(errors.ErrInvalidInput, "allow_sms must be a boolean")
		}
		p.AllowSMS = value
	case "allow_email":
		value, ok := raw.(bool)
		if !ok {
			return errors.Wrap(errors.ErrInvalidInput, "allow_email must be a boolean")
		}
		p.AllowEmail = value
	case "financial_class":
		value, err := stringValue(name, raw)
		if err != nil {
			return err
		}
		p.FinancialClass = optionalString(value)
	}
	return nil
}

func stringValue(name string, raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("%s must be a string", name))
	}
	return value, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalValue(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func optionalEnum[T ~string](value *T) any {
	if value == nil {
		return nil
	}
	return string(*value)
}
