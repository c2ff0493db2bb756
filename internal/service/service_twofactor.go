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
)

// twoFactorService is the concrete implementation of [TwoFactorService].
// Enrollment is two-step: ProvisionURI stores a pending shared secret, and
// Enable turns the second factor on only after the user proves possession
// of the secret with a valid code.
type twoFactorService struct {
	userRepository store.UserRepository
	tokens         TokenService

	// totpIssuer is the issuer label embedded into provisioning URIs.
	totpIssuer string

	logger *logger.Logger
}

// NewTwoFactorService constructs a [TwoFactorService].
func NewTwoFactorService(userRepository store.UserRepository, tokens TokenService, cfg config.Auth, logger *logger.Logger) TwoFactorService {
	return &twoFactorService{
		userRepository: userRepository,
		tokens:         tokens,
		totpIssuer:     cfg.TOTPIssuer,
		logger:         logger,
	}
}

// ProvisionURI returns the otpauth:// enrollment URI for the user.
//
// A pending (stored but unconfirmed) secret is reused so that reloading the
// enrollment page does not invalidate a code the user is about to enter;
// otherwise a fresh secret is generated and stored.
//
// Returns ErrTOTPAlreadyEnabled when the second factor is already on.
func (s *twoFactorService) ProvisionURI(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup for enrollment failed")
		return "", fmt.Errorf("user lookup for enrollment failed: %w", err)
	}

	if user.TOTPEnabled {
		return "", ErrTOTPAlreadyEnabled
	}

	secret := user.TOTPSecret
	if secret == "" {
		secret, err = utils.GenerateTOTPSecret()
		if err != nil {
			return "", err
		}

		if err := s.userRepository.SetTOTPSecret(ctx, userID, secret); err != nil {
			log.Err(err).Int64("user_id", userID).Msg("storing pending secret failed")
			return "", fmt.Errorf("storing pending secret failed: %w", err)
		}
	}

	return utils.TOTPProvisionURI(secret, s.totpIssuer, user.Username), nil
}

// Enable confirms enrollment by checking the submitted code against the
// pending secret and, on success, turning the second factor on.
//
// Returns:
//   - ErrTOTPAlreadyEnabled when already enabled.
//   - ErrTOTPNotEnrolled when no pending secret has been provisioned.
//   - ErrWrongTOTPCode when the code does not match.
func (s *twoFactorService) Enable(ctx context.Context, userID int64, code string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup for enrollment failed")
		return fmt.Errorf("user lookup for enrollment failed: %w", err)
	}

	if user.TOTPEnabled {
		return ErrTOTPAlreadyEnabled
	}
	if user.TOTPSecret == "" {
		return ErrTOTPNotEnrolled
	}

	if !utils.VerifyTOTPCode(user.TOTPSecret, code, time.Now()) {
		return ErrWrongTOTPCode
	}

	if err := s.userRepository.EnableTOTP(ctx, userID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("enabling second factor failed")
		return fmt.Errorf("enabling second factor failed: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("second factor enabled")
	return nil
}

// LoginWithTOTP completes a two-factor login: a pending token from the
// password step is exchanged, together with a valid code, for a session
// pair.
//
// The code is checked before the pending token is consumed, so a mistyped
// code leaves the token usable for another attempt within its five-minute
// lifetime. Only a successful exchange redeems it.
func (s *twoFactorService) LoginWithTOTP(ctx context.Context, pendingToken, code string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.Verify(ctx, pendingToken, models.KindTOTPPending)
	if err != nil {
		return models.TokenPair{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.TokenPair{}, ErrTokenInvalid
	}

	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		// The pending token was minted for this user; if the account is gone
		// the token is dead, not the lookup.
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info().Int64("user_id", userID).Msg("pending token names a missing user")
			return models.TokenPair{}, ErrTokenInvalid
		}

		log.Err(err).Int64("user_id", userID).Msg("user lookup for second factor failed")
		return models.TokenPair{}, fmt.Errorf("user lookup for second factor failed: %w", err)
	}

	if !user.TOTPEnabled || user.TOTPSecret == "" {
		return models.TokenPair{}, ErrTOTPNotEnrolled
	}

	if !utils.VerifyTOTPCode(user.TOTPSecret, code, time.Now()) {
		log.Info().Int64("user_id", userID).Msg("wrong one-time code")
		return models.TokenPair{}, ErrWrongTOTPCode
	}

	if _, err := s.tokens.Redeem(ctx, pendingToken, models.KindTOTPPending); err != nil {
		return models.TokenPair{}, err
	}

	return s.tokens.IssuePair(ctx, userID)
}
