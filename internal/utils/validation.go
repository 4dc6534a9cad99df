package utils

import (
	"regexp"
	"strings"
	"time"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation. Errors keep the
// order in which they were added; the first one is the field the UI focuses.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Merge appends the errors of other, preserving order
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, e := range other.Errors {
		vr.AddError(e.Field, e.Message)
	}
}

// First returns the first error, or nil when the result is valid
func (vr *ValidationResult) First() *ValidationError {
	if len(vr.Errors) == 0 {
		return nil
	}
	return &vr.Errors[0]
}

var (
	cepRegex   = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidCEP reports whether s is a Brazilian postal code (00000-000 or 00000000)
func ValidCEP(s string) bool {
	return cepRegex.MatchString(s)
}

// ValidEmail reports whether s is a plausible email address
func ValidEmail(s string) bool {
	if len(s) > 254 || !emailRegex.MatchString(s) {
		return false
	}
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]
	if len(domain) > 253 || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// ValidName reports whether s is an acceptable full name (min 3 characters,
// at least two words)
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return false
	}
	return len(strings.Fields(s)) >= 2
}

// ParseBirthDate parses a birth date in ISO format and checks that it is in
// the past and not implausibly old.
func ParseBirthDate(s string, now time.Time) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if !d.Before(now) {
		return time.Time{}, false
	}
	if d.Before(now.AddDate(-130, 0, 0)) {
		return time.Time{}, false
	}
	return d, true
}

// SanitizeString removes leading/trailing whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(s)
}

// StripDigits removes any non-digit characters
func StripDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(SanitizeString(s))
}
