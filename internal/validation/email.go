package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	if email == "" {
		return errors.New("email address is required")
	}

	// Bare addresses only: "Name <a@b.c>" parses but is not an email field value.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("valid email required")
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") {
		return errors.New("valid email required")
	}

	return nil
}
