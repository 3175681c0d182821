package utils

import (
	"regexp"
	"unicode"
)

// emailRe checks a standard address shape: word characters with
// optional dots/dashes, an @, and a 2-3 letter TLD.
var emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPassword enforces the sign-up password policy: at least 8
// characters with one digit, one lowercase and one uppercase letter.
// Checked procedurally since RE2 has no lookahead.
func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var digit, lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}
