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

// authService is the concrete implementation of [AuthService].
// It drives registration, email verification, password login, and session
// refresh, using a UserRepository for persistence, bcrypt for password
// hashing, and the token service for every credential it hands out.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokens issues and validates every signed token of the login flows.
	tokens TokenService

	// mailer delivers verification mail. Failures are logged, never
	// surfaced: mail must not fail a registration.
	mailer mailer.Mailer

	// bcryptCost is the bcrypt work factor; zero selects the library default.
	bcryptCost int

	// baseURL is the public frontend URL embedded into mail links.
	baseURL string

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repository,
// token service, and mail gateway.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, tokens TokenService, m mailer.Mailer, cfg config.StructuredConfig, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokens:         tokens,
		mailer:         m,
		bcryptCost:     cfg.Auth.BcryptCost,
		baseURL:        cfg.Mailer.BaseURL,
		logger:         logger,
	}
}

// Register creates a new, unverified user account and dispatches a
// verification mail.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - *ValidationError itemizing every violated registration rule.
//   - store.ErrUserAlreadyExists when the username or email is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if violations := validators.ValidateRegistration(req.Username, req.Email, req.Password, req.Password1); len(violations) > 0 {
		log.Info().Str("username", req.Username).Strs("violations", violations).Msg("registration rejected")
		return models.User{}, &ValidationError{Violations: violations}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.cost())
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password failed: %w", err)
	}

	registered, err := a.userRepository.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.dispatchVerificationMail(ctx, registered)

	return registered, nil
}

// VerifyEmail validates an email-verification token and marks the account
// verified.
//
// A token for an already-verified account succeeds without being consumed,
// so a double-clicked link stays harmless. On the first successful
// verification the token is redeemed and can never be used again.
func (a *authService) VerifyEmail(ctx context.Context, tokenString string) error {
	log := logger.FromContext(ctx)

	claims, err := a.tokens.Verify(ctx, tokenString, models.KindEmailVerification)
	if err != nil {
		return err
	}

	userID, err := claims.UserID()
	if err != nil {
		return ErrTokenInvalid
	}

	user, err := a.userRepository.FindByID(ctx, userID)
	if err != nil {
		// A valid token bound to a deleted account must not reveal that the
		// account is gone.
		if errors.Is(err, store.ErrUserNotFound) {
			log.Info().Int64("user_id", userID).Msg("verification token names a missing user")
			return ErrTokenInvalid
		}

		log.Err(err).Int64("user_id", userID).Msg("user lookup for verification failed")
		return fmt.Errorf("user lookup for verification failed: %w", err)
	}

	if user.EmailVerified {
		return nil
	}

	if _, err := a.tokens.Redeem(ctx, tokenString, models.KindEmailVerification); err != nil {
		return err
	}

	if err := a.userRepository.SetEmailVerified(ctx, userID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("marking email verified failed")
		return fmt.Errorf("marking email verified failed: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("email verified")
	return nil
}

// Login authenticates a username/password pair.
//
// Returns a [models.LoginResult] holding either a session pair or, when the
// second factor is enabled, a short-lived pending token, or:
//   - ErrInvalidDataProvided if username or password is empty.
//   - ErrWrongCredentials when the account does not exist or the password
//     does not match. The two cases are indistinguishable to the caller.
//   - ErrAccountNotVerified for correct credentials on an unverified
//     account; a fresh verification mail is dispatched first.
func (a *authService) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	log := logger.FromContext(ctx)

	if username == "" || password == "" {
		return models.LoginResult{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.LoginResult{}, ErrWrongCredentials
		}

		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.LoginResult{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info().Int64("user_id", user.UserID).Msg("wrong password")
		return models.LoginResult{}, ErrWrongCredentials
	}

	if !user.EmailVerified {
		a.dispatchVerificationMail(ctx, user)
		return models.LoginResult{}, ErrAccountNotVerified
	}

	if user.TOTPEnabled {
		pending, err := a.tokens.Issue(ctx, models.KindTOTPPending, user.UserID)
		if err != nil {
			return models.LoginResult{}, err
		}

		return models.LoginResult{TOTPPending: true, TOTPToken: pending}, nil
	}

	pair, err := a.tokens.IssuePair(ctx, user.UserID)
	if err != nil {
		return models.LoginResult{}, err
	}

	return models.LoginResult{Pair: pair}, nil
}

// Refresh exchanges a valid refresh token for a fresh session pair.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := a.tokens.Verify(ctx, refreshToken, models.KindRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return models.TokenPair{}, ErrTokenInvalid
	}

	return a.tokens.IssuePair(ctx, userID)
}

// Authenticate validates an access token and returns the bound user ID.
func (a *authService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	claims, err := a.tokens.Verify(ctx, accessToken, models.KindAccess)
	if err != nil {
		return 0, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, ErrTokenInvalid
	}

	return userID, nil
}

// dispatchVerificationMail issues a verification token and sends the mail in
// the background. The request must not wait for, or fail on, mail delivery.
func (a *authService) dispatchVerificationMail(ctx context.Context, user models.User) {
	log := logger.FromContext(ctx)

	token, err := a.tokens.Issue(ctx, models.KindEmailVerification, user.UserID)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("issuing verification token failed")
		return
	}

	body := fmt.Sprintf("Hi, %s! Click the link below to verify your email \n\n%s/verify-email.html?token=%s",
		user.Username, a.baseURL, token)

	mailCtx := context.WithoutCancel(ctx)
	go func() {
		if err := a.mailer.Send(mailCtx, user.Email, "Verify your email", body); err != nil {
			a.logger.Err(err).Int64("user_id", user.UserID).Msg("sending verification mail failed")
		}
	}()
}

func (a *authService) cost() int {
	if a.bcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return a.bcryptCost
}
