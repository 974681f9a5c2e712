package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRedactsDenyListedKeys(t *testing.T) {
	data := map[string]any{
		"ssn":        "123-45-6789",
		"first_name": "Jane",
		"claim_id":   "CLM-20250101-ABC123",
		"status":     "submitted",
	}

	sanitized := Sanitize(data)

	assert.Equal(t, Redacted, sanitized["ssn"])
	assert.Equal(t, Redacted, sanitized["first_name"])
	assert.Equal(t, "CLM-20250101-ABC123", sanitized["claim_id"])
	assert.Equal(t, "submitted", sanitized["status"])
}

func TestSanitizeIsCaseInsensitive(t *testing.T) {
	data := map[string]any{
		"SSN":        "123-45-6789",
		"First_Name": "Jane",
		"MRN":        "MRN-20250101-AB12",
	}

	sanitized := Sanitize(data)

	assert.Equal(t, Redacted, sanitized["SSN"])
	assert.Equal(t, Redacted, sanitized["First_Name"])
	assert.Equal(t, Redacted, sanitized["MRN"])
}

func TestSanitizeWalksNestedStructures(t *testing.T) {
	data := map[string]any{
		"request_id": "req-1",
		"patient": map[string]any{
			"date_of_birth": "1980-05-01",
			"gender":        "F",
		},
		"policies": []map[string]any{
			{"policy_number": "P-1", "payer_name": "Acme Health"},
		},
		"lines": []any{
			map[string]any{"subscriber_id": "S-9", "code": "99213"},
			"free text entry",
		},
	}

	sanitized := Sanitize(data)

	patient := sanitized["patient"].(map[string]any)
	assert.Equal(t, Redacted, patient["date_of_birth"])
	assert.Equal(t, "F", patient["gender"])

	policies := sanitized["policies"].([]map[string]any)
	assert.Equal(t, Redacted, policies[0]["policy_number"])
	assert.Equal(t, "Acme Health", policies[0]["payer_name"])

	lines := sanitized["lines"].([]any)
	assert.Equal(t, Redacted, lines[0].(map[string]any)["subscriber_id"])
	assert.Equal(t, "99213", lines[0].(map[string]any)["code"])
	assert.Equal(t, "free text entry", lines[1])
}

func TestSanitizeIsFieldNameBasedNotContentBased(t *testing.T) {
	// Redaction matches field names only. Free-text values that happen to
	// contain PHI-like strings pass through; that is the documented boundary.
	data := map[string]any{
		"ssn":  "123-45-6789",
		"note": "see ssn above",
	}

	sanitized := Sanitize(data)

	assert.Equal(t, Redacted, sanitized["ssn"])
	assert.Equal(t, "see ssn above", sanitized["note"])
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	data := map[string]any{"ssn": "123-45-6789"}
	_ = Sanitize(data)
	assert.Equal(t, "123-45-6789", data["ssn"])
}

func TestSanitizeNil(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
}

func TestIsRestrictedField(t *testing.T) {
	assert.True(t, IsRestrictedField("ssn"))
	assert.True(t, IsRestrictedField("Policy_Number"))
	assert.False(t, IsRestrictedField("payer_name"))
	assert.False(t, IsRestrictedField(""))
}
