package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateHabitName validates a habit name
func ValidateHabitName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("habit name is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return errors.New("habit name too long (max 100 chars)")
	}

	return nil
}

// ValidateDescription caps free text fields.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > 500 {
		return errors.New("description too long (max 500 chars)")
	}
	return nil
}
