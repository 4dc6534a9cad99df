package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses a Brazilian phone number and returns its digits only
// (DDI+DDD+number, no formatting). Bare national numbers are assumed to be
// Brazilian.
func NormalizePhone(phone string) (string, error) {
	clean := strings.TrimSpace(phone)
	if clean == "" {
		return "", fmt.Errorf("empty phone number")
	}

	if !strings.HasPrefix(clean, "+") {
		if strings.HasPrefix(StripDigits(clean), "55") && len(StripDigits(clean)) >= 12 {
			clean = "+" + StripDigits(clean)
		} else {
			clean = "+55" + StripDigits(clean)
		}
	}

	num, err := phonenumbers.Parse(clean, "")
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", phone)
	}

	return StripDigits(phonenumbers.Format(num, phonenumbers.E164)), nil
}

// ValidPhone reports whether phone parses as a valid number
func ValidPhone(phone string) bool {
	_, err := NormalizePhone(phone)
	return err == nil
}
