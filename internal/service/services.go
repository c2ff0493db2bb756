package service

import (
	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/mailer"
	"github.com/eriktmidtun/secfit-auth/internal/store"
)

type Services struct {
	TokenService         TokenService
	AuthService          AuthService
	TwoFactorService     TwoFactorService
	PasswordResetService PasswordResetService
	RememberMeService    RememberMeService
}

func NewServices(storages *store.Storages, m mailer.Mailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	tokens := NewTokenService(storages.TokenDenylistRepository, cfg.Auth, logger)

	return &Services{
		TokenService:         tokens,
		AuthService:          NewAuthService(storages.UserRepository, tokens, m, cfg, logger),
		TwoFactorService:     NewTwoFactorService(storages.UserRepository, tokens, cfg.Auth, logger),
		PasswordResetService: NewPasswordResetService(storages.UserRepository, tokens, m, cfg, logger),
		RememberMeService:    NewRememberMeService(storages.UserRepository, tokens, cfg.Auth, logger),
	}
}
