package store

import (
	"fmt"
	"unicode"
)

// minSecretLength is the minimum number of characters accepted when a new
// vault secret is chosen.
const minSecretLength = 12

// ErrWeakSecret is returned when a new vault secret fails the strength
// policy. Unlocking an existing vault never applies the policy.
var ErrWeakSecret = fmt.Errorf(
	"vault secret is too weak (must be at least %d characters and include upper, lower, "+
		"number, and symbol)",
	minSecretLength,
)

// ValidateSecret enforces the strength policy on a newly chosen secret.
func ValidateSecret(secret string) error {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(secret) < minSecretLength {
		return ErrWeakSecret
	}
	for _, r := range secret {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return ErrWeakSecret
	}
	return nil
}
