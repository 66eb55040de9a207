package models

import (
	"regexp"
	"strings"
	"unicode"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{2,31}$`)

// ValidationError describes every rule an input broke.
type ValidationError struct {
	Field    string
	Messages []string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + strings.Join(e.Messages, "; ")
}

// ValidateUsername checks that a username starts with a letter and has 3 to
// 32 letters, digits, underscores or hyphens.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(strings.TrimSpace(username)) {
		return &ValidationError{Field: "username", Messages: []string{
			"must be 3-32 characters, start with a letter and contain only letters, numbers, underscores, or hyphens",
		}}
	}
	return nil
}

// ValidatePassword checks password complexity: at least 12 characters with
// upper and lower case letters, a digit and a special character.
func ValidatePassword(password string) error {
	var messages []string

	if len(password) < 12 {
		messages = append(messages, "password must be at least 12 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{}|;:',.<>?/`~\"\\", r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		messages = append(messages, "password must contain at least 1 uppercase letter")
	}
	if !hasLower {
		messages = append(messages, "password must contain at least 1 lowercase letter")
	}
	if !hasDigit {
		messages = append(messages, "password must contain at least 1 digit")
	}
	if !hasSpecial {
		messages = append(messages, "password must contain at least 1 special character (!@#$%^&*...)")
	}

	if len(messages) > 0 {
		return &ValidationError{Field: "password", Messages: messages}
	}
	return nil
}
