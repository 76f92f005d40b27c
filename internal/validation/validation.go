// Package validation holds the pure input checks shared by the profile and
// access components.
package validation

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pinPattern   = regexp.MustCompile(`^[0-9]{4}$`)
)

// IsValidPhone reports whether s is a ten digit mobile number starting with
// 6, 7, 8 or 9.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidPin reports whether s is exactly four ASCII digits.
func IsValidPin(s string) bool {
	return pinPattern.MatchString(s)
}

// CleanContacts trims every entry and drops the empty ones, keeping order.
func CleanContacts(list []string) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
