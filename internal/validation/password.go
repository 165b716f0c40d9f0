package validation

import "regexp"

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// IsStrongPassword applies the registration password rules.
func IsStrongPassword(s string) bool {
	return len(s) >= MinPasswordLength && len(s) <= MaxPasswordLength && HasSpecialChar(s)
}
