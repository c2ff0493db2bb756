package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/internal/utils"
	"github.com/eriktmidtun/secfit-auth/models"
)

// rememberMeService is the concrete implementation of [RememberMeService].
//
// The credential is a stateless signed blob:
//
//	base64url(username) + "." + base64url(HMAC-SHA256(username, key))
//
// It carries no expiry; rotating the key is the only way to revoke
// outstanding credentials.
type rememberMeService struct {
	userRepository store.UserRepository
	tokens         TokenService

	// rememberMeKey is the HMAC secret the blobs are signed with.
	rememberMeKey string

	logger *logger.Logger
}

// NewRememberMeService constructs a [RememberMeService].
func NewRememberMeService(userRepository store.UserRepository, tokens TokenService, cfg config.Auth, logger *logger.Logger) RememberMeService {
	return &rememberMeService{
		userRepository: userRepository,
		tokens:         tokens,
		rememberMeKey:  cfg.RememberMeKey,
		logger:         logger,
	}
}

// Issue builds the signed remember-me blob for the user.
func (s *rememberMeService) Issue(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup for remember-me failed")
		return "", fmt.Errorf("user lookup for remember-me failed: %w", err)
	}

	payload := base64.RawURLEncoding.EncodeToString([]byte(user.Username))
	signature := base64.RawURLEncoding.EncodeToString(utils.SignHMAC([]byte(user.Username), s.rememberMeKey))

	return payload + "." + signature, nil
}

// Redeem exchanges a valid remember-me blob for a fresh session pair.
//
// Any structural defect or signature mismatch is reported uniformly as
// [ErrRememberMeInvalid]; the signature check is constant-time.
func (s *rememberMeService) Redeem(ctx context.Context, blob string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	username, err := s.parse(blob)
	if err != nil {
		log.Info().Msg("invalid remember-me credential presented")
		return models.TokenPair{}, ErrRememberMeInvalid
	}

	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.TokenPair{}, ErrRememberMeInvalid
		}

		log.Err(err).Msg("user search for remember-me failed")
		return models.TokenPair{}, fmt.Errorf("user search for remember-me failed: %w", err)
	}

	return s.tokens.IssuePair(ctx, user.UserID)
}

// parse splits and verifies the blob, returning the embedded username.
func (s *rememberMeService) parse(blob string) (string, error) {
	parts := strings.Split(blob, ".")
	if len(parts) != 2 {
		return "", ErrRememberMeInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrRememberMeInvalid
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrRememberMeInvalid
	}

	if !utils.ValidMAC(payload, signature, s.rememberMeKey) {
		return "", ErrRememberMeInvalid
	}

	return string(payload), nil
}
