package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

// Error describes a rejected input field. It is returned before any
// store interaction happens.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks that email is non-empty and well-formed.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &Error{Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &Error{Field: "email", Message: "invalid email address"}
	}
	return nil
}

// ValidateUsername checks the username length bounds.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return &Error{Field: "username", Message: "username is required"}
	}
	if len(username) < minUsernameLen {
		return &Error{Field: "username", Message: fmt.Sprintf("username must be at least %d characters", minUsernameLen)}
	}
	if len(username) > maxUsernameLen {
		return &Error{Field: "username", Message: fmt.Sprintf("username must be at most %d characters", maxUsernameLen)}
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return &Error{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLen)}
	}
	return nil
}

// ValidateRegistration checks all registration inputs, failing on the
// first invalid field.
func ValidateRegistration(email, username, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}
