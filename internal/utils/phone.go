package utils

import (
	"regexp"
	"strings"
)

// E.164-ish: optional +, no leading zero, up to 15 digits
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// IsValidPhone reports whether the number is an acceptable login phone
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizePhone strips everything except digits and a leading plus,
// then ensures the result starts with "+". Messaging providers reject
// numbers with spaces, dashes or parentheses.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if normalized == "" {
		return normalized
	}
	if !strings.HasPrefix(normalized, "+") {
		normalized = "+" + normalized
	}
	return normalized
}
