package otp

import (
	"regexp"
	"strings"
)

var kenyanPhone = regexp.MustCompile(`^(\+254|0)\d{9}$`)

// NormalizePhone validates a Kenyan phone number and returns it in
// international +254 form. Spaces and hyphens are stripped before
// validation.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if !kenyanPhone.MatchString(s) {
		return "", ErrInvalidPhone
	}
	if strings.HasPrefix(s, "0") {
		s = "+254" + s[1:]
	}
	return s, nil
}
