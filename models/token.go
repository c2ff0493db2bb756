package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tags a signed token with the single flow it may be used in.
// A token presented to a flow with a different kind is rejected even when
// its signature and expiry are valid.
type TokenKind string

const (
	// KindEmailVerification unlocks the verify-email flow. Lifetime: 1 hour.
	KindEmailVerification TokenKind = "email_verification"

	// KindPasswordReset unlocks the reset-password flow. Lifetime: 20 minutes.
	KindPasswordReset TokenKind = "password_reset"

	// KindTOTPPending is issued after a correct password for a user with the
	// second factor enabled, and is exchanged together with a TOTP code for
	// a session pair. Lifetime: 5 minutes.
	KindTOTPPending TokenKind = "totp_pending"

	// KindAccess is a session access token.
	KindAccess TokenKind = "access"

	// KindRefresh is a session refresh token, exchanged for a fresh pair.
	KindRefresh TokenKind = "refresh"
)

// Lifetime returns how long a newly issued token of this kind stays valid.
// Session kinds have configurable lifetimes and return zero here.
func (k TokenKind) Lifetime() time.Duration {
	switch k {
	case KindEmailVerification:
		return time.Hour
	case KindPasswordReset:
		return 20 * time.Minute
	case KindTOTPPending:
		return 5 * time.Minute
	default:
		return 0
	}
}

// SignedTokenClaims is the claim set carried by every token this service
// issues: the registered JWT claims plus the kind tag.
//
// The "jti" registered claim holds the nonce used for single-use
// enforcement: consuming a token inserts its jti into the denylist, and
// verification fails for any token whose jti is already there.
type SignedTokenClaims struct {
	jwt.RegisteredClaims

	// Kind is the flow this token belongs to, stored as the "token_type"
	// claim.
	Kind TokenKind `json:"token_type"`
}

// UserID extracts the subject claim and parses it as the numeric user
// identifier.
//
// Returns an error if the subject claim is missing, empty, or cannot be
// converted to int64.
func (c *SignedTokenClaims) UserID() (int64, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// TokenPair is the session credential pair returned on successful
// authentication.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is the outcome of a successful password check: either a full
// session pair, or a short-lived pending token when the second factor must
// still be presented.
type LoginResult struct {
	Pair        TokenPair
	TOTPPending bool
	TOTPToken   string
}

// DenylistEntry records a consumed single-use token. Rows are append-only;
// the primary key on JTI is what makes consumption atomic under concurrent
// redemption attempts.
type DenylistEntry struct {
	// JTI is the consumed token's nonce.
	JTI string

	// UserID is the subject the token was bound to.
	UserID int64

	// Kind is the consumed token's flow tag.
	Kind TokenKind

	// ExpiresAt is the token's own expiry; rows past it are garbage to be
	// purged by the janitor worker.
	ExpiresAt time.Time

	// ConsumedAt is when the token was redeemed.
	ConsumedAt time.Time
}

// TableName returns the name of the database table
// associated with the DenylistEntry model.
func (e DenylistEntry) TableName() string {
	return "token_denylist"
}
