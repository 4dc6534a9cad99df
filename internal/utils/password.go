package utils

import "unicode"

// Password complexity baseline: minimum length plus one uppercase, one
// lowercase and one digit. The strength score never gates submission beyond
// this rule.
const MinPasswordLength = 8

// PasswordStrengthLabel is the qualitative feedback label
type PasswordStrengthLabel string

const (
	PasswordWeak       PasswordStrengthLabel = "weak"
	PasswordFair       PasswordStrengthLabel = "fair"
	PasswordStrong     PasswordStrengthLabel = "strong"
	PasswordVeryStrong PasswordStrengthLabel = "very_strong"
)

// ValidPassword reports whether the password satisfies the minimum
// complexity rule.
func ValidPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// PasswordStrength scores a password 0-100 from length and character-class
// coverage. Feedback only.
func PasswordStrength(password string) int {
	if password == "" {
		return 0
	}

	// Up to 40 points for length, saturating at 16 characters
	score := len(password) * 40 / 16
	if score > 40 {
		score = 40
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	// 15 points per character class
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			score += 15
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// StrengthLabel maps a 0-100 score to its qualitative label
func StrengthLabel(score int) PasswordStrengthLabel {
	switch {
	case score < 40:
		return PasswordWeak
	case score < 60:
		return PasswordFair
	case score < 80:
		return PasswordStrong
	default:
		return PasswordVeryStrong
	}
}
