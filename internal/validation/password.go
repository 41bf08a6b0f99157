package validation

import (
	"errors"
	"strings"
)

const (
	passwordMinLength = 8
	// bcrypt ignores everything past 72 bytes.
	passwordMaxBytes  = 72
)

var weakPasswordFragments = []string{
	"password", "12345678", "qwerty", "letmein",
	"welcome", "monkey", "dragon", "sunshine",
	"onyx",
}

// ValidatePassword rejects passwords that are too short, too long for bcrypt,
// built on a well-known fragment, or containing one of the account's own
// identifiers (username, e-mail local part).
func ValidatePassword(password string, identifiers ...string) error {
	if len(password) < passwordMinLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > passwordMaxBytes {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, fragment := range weakPasswordFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	for _, id := range identifiers {
		id, _, _ = strings.Cut(strings.ToLower(strings.TrimSpace(id)), "@")
		if len(id) >= 3 && strings.Contains(lower, id) {
			return errors.New("password must not contain your username or email")
		}
	}

	return nil
}
