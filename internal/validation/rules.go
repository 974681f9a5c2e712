// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/medbilling/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// ssnRegex matches the 123-45-6789 social security number format.
	ssnRegex = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)

	// zipRegex matches 5-digit and ZIP+4 postal codes.
	zipRegex = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// SSN validates the social security number format. Only the shape is checked
// here; the value itself is encrypted before it ever reaches storage.
var SSN = validation.NewStringRuleWithError(
	func(s string) bool {
		return ssnRegex.MatchString(s)
	},
	validation.NewError("validation_ssn_format", "must match the 123-45-6789 format"),
)

// ZipCode validates 5-digit and ZIP+4 postal code formats.
var ZipCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return zipRegex.MatchString(s)
	},
	validation.NewError("validation_zip_format", "must be a valid postal code"),
)

// ISODate validates a calendar date in YYYY-MM-DD format.
var ISODate = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	},
	validation.NewError("validation_iso_date", "must be a valid date in YYYY-MM-DD format"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
