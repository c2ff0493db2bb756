package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService is the concrete implementation of [TokenService].
// Every token is an HMAC-SHA256 JWT typed by the token_type claim; single
// use is enforced by inserting the jti nonce into the denylist on Redeem.
type tokenService struct {
	// denylist records consumed nonces. Its primary-key constraint is what
	// makes Redeem atomic under concurrent attempts.
	denylist store.TokenDenylistRepository

	// tokenSignKey is the HMAC secret used to sign and verify every token.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// accessDuration and refreshDuration control the lifetimes of the
	// session kinds; flow kinds carry their fixed lifetimes.
	accessDuration  time.Duration
	refreshDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewTokenService constructs a [TokenService] wired to the given denylist
// repository and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewTokenService(denylist store.TokenDenylistRepository, cfg config.Auth, logger *logger.Logger) TokenService {
	return &tokenService{
		denylist:        denylist,
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
		logger:          logger,
	}
}

// Issue creates a signed token of the given kind for the user.
//
// Flow kinds (email verification, password reset, pending second factor)
// carry their fixed lifetimes; access and refresh tokens use the configured
// session durations.
func (s *tokenService) Issue(ctx context.Context, kind models.TokenKind, userID int64) (string, error) {
	tokenString, _, err := utils.GenerateSignedToken(s.tokenIssuer, userID, kind, s.durationFor(kind), s.tokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return tokenString, nil
}

// IssuePair creates a fresh access/refresh session pair for the user.
func (s *tokenService) IssuePair(ctx context.Context, userID int64) (models.TokenPair, error) {
	access, err := s.Issue(ctx, models.KindAccess, userID)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := s.Issue(ctx, models.KindRefresh, userID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify validates the token's signature, issuer, expiry, and kind without
// consuming it.
//
// Validation failures are normalised to [ErrTokenExpired] or
// [ErrTokenInvalid] so callers do not need to inspect low-level JWT errors.
func (s *tokenService) Verify(ctx context.Context, tokenString string, kind models.TokenKind) (*models.SignedTokenClaims, error) {
	claims, err := utils.ValidateAndParseToken(tokenString, s.tokenSignKey, s.tokenIssuer, kind)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Redeem verifies the token and then consumes its nonce.
//
// Consumption is a bare INSERT into the denylist; the unique constraint on
// the nonce column guarantees that of any number of concurrent redemption
// attempts exactly one succeeds. Later attempts get [ErrTokenReplayed].
func (s *tokenService) Redeem(ctx context.Context, tokenString string, kind models.TokenKind) (*models.SignedTokenClaims, error) {
	log := logger.FromContext(ctx)

	claims, err := s.Verify(ctx, tokenString, kind)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	entry := models.DenylistEntry{
		JTI:        claims.ID,
		UserID:     userID,
		Kind:       kind,
		ExpiresAt:  claims.ExpiresAt.Time,
		ConsumedAt: time.Now(),
	}

	if err := s.denylist.Consume(ctx, entry); err != nil {
		if errors.Is(err, store.ErrTokenAlreadyConsumed) {
			log.Warn().Str("kind", string(kind)).Int64("user_id", userID).Msg("token replay rejected")
			return nil, ErrTokenReplayed
		}

		log.Err(err).Str("kind", string(kind)).Msg("consuming token failed")
		return nil, fmt.Errorf("consuming token failed: %w", err)
	}

	return claims, nil
}

func (s *tokenService) durationFor(kind models.TokenKind) time.Duration {
	if d := kind.Lifetime(); d > 0 {
		return d
	}

	switch kind {
	case models.KindAccess:
		return s.accessDuration
	case models.KindRefresh:
		return s.refreshDuration
	default:
		return 0
	}
}
