// SPDX-License-Identifier: Apache-2.0

package models

// RegisterRequest is the body of POST /api/users/.
// Password1 repeats Password; the two must match.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password1 string `json:"password1"`
}

// LoginRequest is the body of POST /api/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/token/. Exactly one of the two
// shapes is populated: the session pair for single-factor accounts, or a
// short-lived pending token when the second factor must still be presented.
type LoginResponse struct {
	Access    string `json:"access,omitempty"`
	Refresh   string `json:"refresh,omitempty"`
	TOTPToken string `json:"totp_token,omitempty"`
}

// RefreshRequest is the body of POST /api/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TOTPLoginRequest is the body of POST /api/users/two_factor/login/.
type TOTPLoginRequest struct {
	TOTPToken string `json:"totp_token"`
	TOTPCode  string `json:"totp_code"`
}

// TOTPEnableRequest is the body of POST /api/users/two_factor/enable/.
type TOTPEnableRequest struct {
	TOTPCode string `json:"totp_code"`
}

// TOTPURIResponse carries the provisioning URI to be rendered as a
// scannable code by the client.
type TOTPURIResponse struct {
	URI string `json:"totp_uri"`
}

// PasswordResetRequest is the body of POST /api/users/password-reset/.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the body of
// POST /api/users/password-reset/confirm/.
type PasswordResetConfirmRequest struct {
	Token     string `json:"token"`
	Password  string `json:"password"`
	Password1 string `json:"password1"`
}

// RememberMeResponse carries the signed remember-me blob.
type RememberMeResponse struct {
	RememberMe string `json:"remember_me"`
}

// MessageResponse is a generic success envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse itemizes field-level violations, mirroring the
// shape the frontend expects for registration and password-reset errors.
type ValidationErrorResponse struct {
	Violations []string `json:"violations"`
}
