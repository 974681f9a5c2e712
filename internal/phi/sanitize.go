// Package phi implements PHI redaction for everything that leaves the trust
// boundary: API responses and log/audit payloads.
//
// Structural rule for the whole codebase: no code path that writes to a
// persistent log, an audit trail, or an external API response may bypass this
// package when PHI-bearing data is in scope. The package cannot enforce that
// by itself; call sites must route payloads through Sanitize before handing
// them to a logging backend or audit sink.
package phi

import "strings"

// Redacted is the fixed marker substituted for any redacted value. It is
// deliberately non-reversible: once redacted, the original value is gone from
// that representation.
const Redacted = "[REDACTED]"

// denyList holds lowercase field names whose values are PHI-suggestive and
// must never appear in logs or audit details. Redaction is matched on field
// NAME, not value content: a free-text field containing an SSN-looking string
// passes through untouched. That is a stated design boundary, not a bug.
var denyList = map[string]struct{}{
	"ssn":                    {},
	"social_security_number": {},
	"social_security":        {},
	"first_name":             {},
	"last_name":              {},
	"middle_name":            {},
	"full_name":              {},
	"date_of_birth":          {},
	"dob":                    {},
	"birth_date":             {},
	"phone":                  {},
	"phone_number":           {},
	"telephone":              {},
	"email":                  {},
	"email_address":          {},
	"address":                {},
	"address_line_1":         {},
	"address_line_2":         {},
	"city":                   {},
	"state":                  {},
	"zip_code":               {},
	"zipcode":                {},
	"emergency_contact":      {},
	"emergency_phone":        {},
	"medical_record_number":  {},
	"mrn":                    {},
	"patient_id":             {},
	"member_id":              {},
	"subscriber_id":          {},
	"policy_number":          {},
	"group_number":           {},
	"policy_holder_name":     {},
	"policy_holder_dob":      {},
	"policy_holder_ssn":      {},
}

// IsRestrictedField reports whether a field name matches the PHI deny-list.
// Matching is case-insensitive.
func IsRestrictedField(name string) bool {
	_, ok := denyList[strings.ToLower(name)]
	return ok
}

// Sanitize returns a copy of data with every deny-listed key redacted.
//
// Nested maps and slices of maps are walked recursively; all other values,
// including strings inside slices, pass through unchanged. The input map is
// never mutated, so callers can sanitize a payload for logging while keeping
// the original for the business operation.
func Sanitize(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		if IsRestrictedField(key) {
			sanitized[key] = Redacted
			continue
		}
		sanitized[key] = sanitizeValue(value)
	}
	return sanitized
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return Sanitize(v)
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, item := range v {
			out[i] = Sanitize(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return value
	}
}
