package domain

import (
	"time"

	cryptoService "github.com/allisson/medbilling/internal/crypto/service"
	"github.com/allisson/medbilling/internal/errors"
	"github.com/allisson/medbilling/internal/record"
)

// PatientInsurance is one insurance policy attached to a patient. Policy
// identifiers and policy holder details are encrypted; payer identity and
// coverage dates are plain because verification jobs query on them.
type PatientInsurance struct {
	record.Record

	// PatientID is the owning patient's storage identity.
	PatientID int64

	InsuranceType InsuranceType
	PayerName     string
	// PayerID is the national payer identifier, when known.
	PayerID *string

	// Encrypted policy fields.
	PolicyNumber record.EncryptedString
	GroupNumber  record.EncryptedString
	SubscriberID record.EncryptedString

	// Encrypted policy holder fields, used when the holder is not the patient.
	PolicyHolderName record.EncryptedString
	PolicyHolderDOB  record.EncryptedString
	PolicyHolderSSN  record.EncryptedString

	// RelationshipToPatient describes the policy holder (self, spouse, parent).
	RelationshipToPatient *string

	EffectiveDate   *time.Time
	TerminationDate *time.Time
	IsPrimary       bool
}

// insurancePHIFieldNames lists the policy's encrypted attribute names.
var insurancePHIFieldNames = []string{
	"policy_number", "group_number", "subscriber_id",
	"policy_holder_name", "policy_holder_dob", "policy_holder_ssn",
}

// InsurancePHIFieldNames returns the logical names of the policy's encrypted
// attributes. The returned slice is a copy.
func InsurancePHIFieldNames() []string {
	names := make([]string, len(insurancePHIFieldNames))
	copy(names, insurancePHIFieldNames)
	return names
}

func (i *PatientInsurance) phiField(name string) *record.EncryptedString {
	switch name {
	case "policy_number":
		return &i.PolicyNumber
	case "group_number":
		return &i.GroupNumber
	case "subscriber_id":
		return &i.SubscriberID
	case "policy_holder_name":
		return &i.PolicyHolderName
	case "policy_holder_dob":
		return &i.PolicyHolderDOB
	case "policy_holder_ssn":
		return &i.PolicyHolderSSN
	}
	return nil
}

// SetAttribute encrypts value into the named policy attribute. An empty
// value clears it. Returns ErrUnknownAttribute for undeclared names.
func (i *PatientInsurance) SetAttribute(codec *cryptoService.FieldCodec, name, value string) error {
	field := i.phiField(name)
	if field == nil {
		return errors.Wrap(errors.ErrUnknownAttribute, name)
	}
	return field.Seal(codec, value)
}

// GetAttribute decrypts and returns the named policy attribute.
func (i *PatientInsurance) GetAttribute(codec *cryptoService.FieldCodec, name string) (string, error) {
	field := i.phiField(name)
	if field == nil {
		return "", errors.Wrap(errors.ErrUnknownAttribute, name)
	}
	return field.Reveal(codec)
}

// CoverageActive reports whether the policy covers the given date, based on
// the effective and termination boundaries. Both boundaries are inclusive.
func (i *PatientInsurance) CoverageActive(at time.Time) bool {
	if i.EffectiveDate != nil && i.EffectiveDate.After(at) {
		return false
	}
	if i.TerminationDate != nil && i.TerminationDate.Before(at) {
		return false
	}
	return true
}

// ExternalView builds the serializable representation of the policy,
// redacting or decrypting the policy fields per includePHI. Decrypt failures
// are joined per field, never fatal to the rest of the view.
func (i *PatientInsurance) ExternalView(codec *cryptoService.FieldCodec, includePHI bool) (map[string]any, error) {
	view := i.BaseView()
	view["insurance_type"] = string(i.InsuranceType)
	view["payer_name"] = i.PayerName
	view["payer_id"] = optionalValue(i.PayerID)
	view["relationship_to_patient"] = optionalValue(i.RelationshipToPatient)
	view["is_primary"] = i.IsPrimary
	view["effective_date"] = optionalDate(i.EffectiveDate)
	view["termination_date"] = optionalDate(i.TerminationDate)

	fields := make(map[string]record.EncryptedString, len(insurancePHIFieldNames))
	for _, name := range insurancePHIFieldNames {
		fields[name] = *i.phiField(name)
	}

	err := record.RevealFields(view, codec, fields, includePHI)
	return view, err
}

func optionalDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.Format("2006-01-02")
}
