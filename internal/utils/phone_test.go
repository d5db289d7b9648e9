package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizePhone tests stripping of formatting characters
func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already normalized", input: "+919876543210", expected: "+919876543210"},
		{name: "missing plus", input: "919876543210", expected: "+919876543210"},
		{name: "spaces and dashes", input: "+91 98765-43210", expected: "+919876543210"},
		{name: "parentheses", input: "+1 (415) 555-0134", expected: "+14155550134"},
		{name: "whatsapp prefix residue", input: "whatsapp:+919876543210", expected: "+919876543210"},
		{name: "empty", input: "", expected: ""},
		{name: "no digits", input: "---", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

// TestIsValidPhone tests the E.164 validation pattern
func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "with plus", input: "+919876543210", valid: true},
		{name: "without plus", input: "919876543210", valid: true},
		{name: "minimum length", input: "+12", valid: true},
		{name: "leading zero", input: "+0123456789", valid: false},
		{name: "too long", input: "+1234567890123456", valid: false},
		{name: "letters", input: "+91abc43210", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPhone(tt.input))
		})
	}
}
