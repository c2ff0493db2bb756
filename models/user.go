package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Username is the unique login identifier, at least four characters long.
	Username string `json:"username"`

	// Email is the unique address used for verification and password-reset
	// mail. It is validated for shape at registration time.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This value MUST be a derived value, never plaintext.
	PasswordHash string `json:"-"`

	// EmailVerified reports whether the user has followed a verification
	// link. Unverified accounts cannot log in.
	EmailVerified bool `json:"email_verified"`

	// TOTPSecret is the base32 shared secret for the second factor.
	// It is set during enrollment and authoritative only once TOTPEnabled
	// is true. Never exposed via JSON.
	TOTPSecret string `json:"-"`

	// TOTPEnabled reports whether the second factor has been confirmed with
	// a valid code. When true, TOTPSecret is guaranteed to be set.
	TOTPEnabled bool `json:"totp_enabled"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate describes a partial update of a user record. Nil fields are
// left untouched; the repository builds the UPDATE statement from the
// non-nil ones only.
type UserUpdate struct {
	UserID int64

	PasswordHash  *string
	EmailVerified *bool
	TOTPSecret    *string
	TOTPEnabled   *bool
}
