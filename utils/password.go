package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Password policy errors. Handlers map these to client-facing validation
// failures; the wrapped message names the first missing requirement.
var (
	ErrPasswordTooWeak = errors.New("password does not meet the policy")
	ErrPasswordReused  = errors.New("new password must differ from the previous one")
)

const specialCharacters = `!@#$%^&*(),.?":{}|<>_-`

// ValidatePassword checks password strength: at least 8 characters with an
// uppercase letter, a lowercase letter, a digit and a special character.
func ValidatePassword(password string) error {
	if issue := firstPasswordIssue(password); issue != "" {
		return fmt.Errorf("%w: must contain %s", ErrPasswordTooWeak, issue)
	}
	return nil
}

// ValidateNewPassword applies ValidatePassword and additionally rejects a
// password that matches previousHash. The comparison goes through bcrypt's
// own comparator, never a re-encode plus string equality.
func ValidateNewPassword(password, previousHash string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if previousHash != "" && bcrypt.CompareHashAndPassword([]byte(previousHash), []byte(password)) == nil {
		return ErrPasswordReused
	}
	return nil
}

func firstPasswordIssue(password string) string {
	// Characters, not bytes: multibyte letters count once.
	if utf8.RuneCountInString(password) < 8 {
		return "at least 8 characters"
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialCharacters, r):
			special = true
		}
	}
	switch {
	case !upper:
		return "an uppercase letter"
	case !lower:
		return "a lowercase letter"
	case !digit:
		return "a digit"
	case !special:
		return "a special character"
	}
	return ""
}
