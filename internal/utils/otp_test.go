package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateSecureOTP tests code shape and value range
func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateSecureOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		value, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, value, 100000)
		assert.LessOrEqual(t, value, 999999)
	}
}

// TestGenerateSecureOTPVaries checks consecutive codes are not constant
func TestGenerateSecureOTPVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateSecureOTP()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "50 generated codes were all identical")
}
