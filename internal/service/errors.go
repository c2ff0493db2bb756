// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongCredentials    = errors.New("wrong username or password")

	// ErrAccountNotVerified is returned on login when the account's email
	// address has not been verified yet. A fresh verification mail is
	// dispatched before the error is returned.
	ErrAccountNotVerified = errors.New("email address is not verified")

	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenExpired  = errors.New("token is expired")
	ErrTokenReplayed = errors.New("token has already been used")

	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrTOTPAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTOTPNotEnrolled    = errors.New("two-factor authentication is not enrolled")
	ErrWrongTOTPCode      = errors.New("wrong one-time code")

	ErrRememberMeInvalid = errors.New("invalid remember-me credential")
)

// ValidationError carries the itemized policy violations of a registration
// or password-reset request.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
