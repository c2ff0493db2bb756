package service

import (
	"context"

	"github.com/eriktmidtun/secfit-auth/models"
)

// TokenService is the codec for every signed token the application issues.
// Single-use kinds are enforced through Redeem; session kinds are verified
// only.
type TokenService interface {
	// Issue creates a signed token of the given kind for the user. Flow
	// kinds carry their fixed lifetime, session kinds the configured one.
	Issue(ctx context.Context, kind models.TokenKind, userID int64) (string, error)

	// IssuePair creates a fresh access/refresh session pair.
	IssuePair(ctx context.Context, userID int64) (models.TokenPair, error)

	// Verify checks signature, issuer, expiry, and kind, leaving the token
	// reusable.
	Verify(ctx context.Context, tokenString string, kind models.TokenKind) (*models.SignedTokenClaims, error)

	// Redeem verifies and then consumes the token. Of any number of
	// concurrent redemptions of the same token, exactly one succeeds; the
	// rest get ErrTokenReplayed.
	Redeem(ctx context.Context, tokenString string, kind models.TokenKind) (*models.SignedTokenClaims, error)
}

// AuthService drives the account lifecycle from registration to session
// issuance.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	VerifyEmail(ctx context.Context, tokenString string) error
	Login(ctx context.Context, username, password string) (models.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// Authenticate validates an access token and returns the user ID it is
	// bound to. Used by the authentication middleware.
	Authenticate(ctx context.Context, accessToken string) (int64, error)
}

// TwoFactorService manages TOTP enrollment and the second login step.
type TwoFactorService interface {
	ProvisionURI(ctx context.Context, userID int64) (string, error)
	Enable(ctx context.Context, userID int64, code string) error
	LoginWithTOTP(ctx context.Context, pendingToken, code string) (models.TokenPair, error)
}

// PasswordResetService implements the forgotten-password flow.
type PasswordResetService interface {
	// Request dispatches a reset mail when an account with the given email
	// exists. The outcome is uniform either way so addresses cannot be
	// enumerated.
	Request(ctx context.Context, email string) error
	Confirm(ctx context.Context, req models.PasswordResetConfirmRequest) error
}

// RememberMeService issues and redeems the stateless signed remember-me
// credential.
type RememberMeService interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Redeem(ctx context.Context, blob string) (models.TokenPair, error)
}
