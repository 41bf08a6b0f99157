package validation

import (
	"errors"
	"regexp"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// ValidateUsername expects an already lowercased username.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return errors.New("username must be 3-50 characters")
	}

	if !usernamePattern.MatchString(username) {
		return errors.New("username may only contain letters, numbers, dots, dashes and underscores")
	}

	return nil
}
