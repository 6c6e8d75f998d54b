package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		issue    string
	}{
		{"valid", "Abcd1234!", ""},
		{"too short", "Ab1!", "at least 8 characters"},
		{"multibyte letters count as characters, not bytes", "ÁÉÍa1!", "at least 8 characters"},
		{"eight multibyte characters pass the length rule", "Áéíóú12!", ""},
		{"no uppercase", "abcd1234!", "an uppercase letter"},
		{"no lowercase", "ABCD1234!", "a lowercase letter"},
		{"no digit", "Abcdefgh!", "a digit"},
		{"no special character", "Abcd12345", "a special character"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.issue == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrPasswordTooWeak)
			assert.Contains(t, err.Error(), tc.issue)
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	previousHash, err := HashPassword("Abcd1234!")
	require.NoError(t, err)

	t.Run("rejects reuse of the previous password", func(t *testing.T) {
		assert.ErrorIs(t, ValidateNewPassword("Abcd1234!", previousHash), ErrPasswordReused)
	})

	t.Run("accepts a different compliant password", func(t *testing.T) {
		assert.NoError(t, ValidateNewPassword("Wxyz9876?", previousHash))
	})

	t.Run("weak password is rejected before the reuse check", func(t *testing.T) {
		assert.ErrorIs(t, ValidateNewPassword("short", previousHash), ErrPasswordTooWeak)
	})
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("Abcd1234!")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("Abcd1234!", hash))
	assert.False(t, CheckPasswordHash("Abcd1234?", hash))
}
