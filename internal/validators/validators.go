// Package validators implements the registration input policy: email
// format, minimum username length, and the password strength rules.
// Violations are collected as human-readable messages so a single response
// can itemize every failed rule at once.
package validators

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const (
	// minUsernameLength is the minimum number of characters in a username.
	minUsernameLength = 4

	// minPasswordLength is the minimum number of characters in a password.
	minPasswordLength = 8

	// passwordSymbols is the set of characters accepted as symbols by the
	// password policy.
	passwordSymbols = "()[]{}|\\`~!@#$%^&*_-+=;:'\",<>./?"
)

// ValidateEmail checks that value parses as a bare RFC 5322 address.
func ValidateEmail(value string) []string {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return []string{"Enter a valid email address."}
	}
	return nil
}

// ValidateUsername checks the minimum username length.
func ValidateUsername(value string) []string {
	if len(value) < minUsernameLength {
		return []string{fmt.Sprintf("Username must be at least %d characters", minUsernameLength)}
	}
	return nil
}

// ValidatePassword checks password against every strength rule and the
// confirmation field, returning one message per violated rule.
//
// Rules: minimum length, at least one digit, one uppercase letter, one
// lowercase letter, and one symbol from the accepted set; password and
// confirm must match.
func ValidatePassword(password, confirm string) []string {
	var violations []string

	if len(password) < minPasswordLength {
		violations = append(violations,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		violations = append(violations, "The password must contain at least 1 digit, 0-9.")
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		violations = append(violations, "The password must contain at least 1 uppercase letter, A-Z.")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		violations = append(violations, "The password must contain at least 1 lowercase letter, a-z.")
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		violations = append(violations, "The password must contain at least 1 symbol: "+passwordSymbols)
	}
	if password != confirm {
		violations = append(violations, "Passwords must match!")
	}

	return violations
}

// ValidateRegistration runs every registration rule and returns the combined
// list of violations, or nil when the input passes all of them.
func ValidateRegistration(username, email, password, confirm string) []string {
	var violations []string

	violations = append(violations, ValidateUsername(username)...)
	violations = append(violations, ValidateEmail(email)...)
	violations = append(violations, ValidatePassword(password, confirm)...)

	return violations
}
