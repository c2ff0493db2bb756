package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/mailer"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/internal/validators"
	"github.com/eriktmidtun/secfit-auth/models"
	"golang.org/x/crypto/bcrypt"
)

// passwordResetService is the concrete implementation of
// [PasswordResetService].
type passwordResetService struct {
	userRepository store.UserRepository
	tokens         TokenService
	mailer         mailer.Mailer

	bcryptCost int
	baseURL    string

	logger *logger.Logger
}

// NewPasswordResetService constructs a [PasswordResetService].
func NewPasswordResetService(userRepository store.UserRepository, tokens TokenService, m mailer.Mailer, cfg config.StructuredConfig, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		userRepository: userRepository,
		tokens:         tokens,
		mailer:         m,
		bcryptCost:     cfg.Auth.BcryptCost,
		baseURL:        cfg.Mailer.BaseURL,
		logger:         logger,
	}
}

// Request dispatches a password-reset mail to the given address.
//
// The outcome is uniform: an unknown address succeeds exactly like a known
// one, so the endpoint cannot be used to enumerate accounts. Only internal
// failures are reported.
func (s *passwordResetService) Request(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info().Msg("password reset requested for unknown email")
			return nil
		}

		log.Err(err).Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, err := s.tokens.Issue(ctx, models.KindPasswordReset, user.UserID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hi, %s! Click the link below to reset your password. The link is valid for 20 minutes. \n\n%s/reset-password.html?token=%s",
		user.Username, s.baseURL, token)

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.mailer.Send(mailCtx, user.Email, "Reset your password", body); err != nil {
			s.logger.Err(err).Int64("user_id", user.UserID).Msg("sending reset mail failed")
		}
	}()

	return nil
}

// Confirm sets a new password in exchange for a valid reset token.
//
// The new password is checked against the policy before the token is
// consumed, so a rejected password leaves the token usable for another
// attempt within its lifetime. Only a successful reset redeems it.
func (s *passwordResetService) Confirm(ctx context.Context, req models.PasswordResetConfirmRequest) error {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.Verify(ctx, req.Token, models.KindPasswordReset)
	if err != nil {
		return err
	}

	if violations := validators.ValidatePassword(req.Password, req.Password1); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	userID, err := claims.UserID()
	if err != nil {
		return ErrTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost())
	if err != nil {
		return fmt.Errorf("hashing password failed: %w", err)
	}

	if _, err := s.tokens.Redeem(ctx, req.Token, models.KindPasswordReset); err != nil {
		return err
	}

	if err := s.userRepository.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("updating password hash failed")
		return fmt.Errorf("updating password hash failed: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("password reset completed")
	return nil
}

func (s *passwordResetService) cost() int {
	if s.bcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.bcryptCost
}
