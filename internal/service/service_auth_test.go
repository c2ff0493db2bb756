package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/mock"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func testStructuredConfig() config.StructuredConfig {
	auth := testAuthConfig()
	auth.BcryptCost = bcrypt.MinCost

	return config.StructuredConfig{
		Auth:   auth,
		Mailer: config.Mailer{BaseURL: "https://secfit.test"},
	}
}

type authSvcMocks struct {
	users    *mock.MockUserRepository
	denylist *mock.MockTokenDenylistRepository
	mailer   *mock.MockMailer
	tokens   TokenService
}

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, authSvcMocks) {
	t.Helper()

	cfg := testStructuredConfig()
	m := authSvcMocks{
		users:    mock.NewMockUserRepository(ctrl),
		denylist: mock.NewMockTokenDenylistRepository(ctrl),
		mailer:   mock.NewMockMailer(ctrl),
	}
	m.tokens = NewTokenService(m.denylist, cfg.Auth, logger.Nop())

	return NewAuthService(m.users, m.tokens, m.mailer, cfg, logger.Nop()), m
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// expectMail registers a Send expectation and returns a channel that is closed
// once the background goroutine has delivered the mail.
func expectMail(m *mock.MockMailer, to, subject string, bodyCheck func(t *testing.T, body string), t *testing.T) <-chan struct{} {
	sent := make(chan struct{})
	m.EXPECT().Send(gomock.Any(), to, subject, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _, body string) error {
			if bodyCheck != nil {
				bodyCheck(t, body)
			}
			close(sent)
			return nil
		},
	)
	return sent
}

func waitForMail(t *testing.T, sent <-chan struct{}) {
	t.Helper()
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("verification mail was not dispatched")
	}
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	req := models.RegisterRequest{
		Username:  "athlete",
		Email:     "athlete@example.com",
		Password:  "Sup3r-Secret!",
		Password1: "Sup3r-Secret!",
	}

	m.users.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, req.Username, user.Username)
			assert.Equal(t, req.Email, user.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))

			user.UserID = 7
			return user, nil
		},
	)

	sent := expectMail(m.mailer, req.Email, "Verify your email", func(t *testing.T, body string) {
		assert.Contains(t, body, "Hi, athlete!")
		assert.Contains(t, body, "https://secfit.test/verify-email.html?token=")
	}, t)

	registered, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), registered.UserID)

	waitForMail(t, sent)
}

func TestAuthService_Register_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no repository or mailer expectations: a rejected request must not
	// touch either
	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username:  "ab",
		Email:     "not-an-email",
		Password:  "short",
		Password1: "different",
	})

	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected *ValidationError, got %v", err)
	assert.Contains(t, strings.Join(ve.Violations, "; "), "Username must be at least 4 characters")
	assert.Contains(t, strings.Join(ve.Violations, "; "), "Passwords must match!")
}

func TestAuthService_Register_DuplicateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().Create(ctx, gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists)

	_, err := svc.Register(ctx, models.RegisterRequest{
		Username:  "athlete",
		Email:     "athlete@example.com",
		Password:  "Sup3r-Secret!",
		Password1: "Sup3r-Secret!",
	})
	require.ErrorIs(t, err, store.ErrUserAlreadyExists)
}

// ── VerifyEmail ──────────────────────────────────────────────────────────────

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := m.tokens.Issue(ctx, models.KindEmailVerification, 7)
	require.NoError(t, err)

	gomock.InOrder(
		m.users.EXPECT().FindByID(ctx, int64(7)).Return(models.User{UserID: 7, EmailVerified: false}, nil),
		m.denylist.EXPECT().Consume(ctx, gomock.Any()).Return(nil),
		m.users.EXPECT().SetEmailVerified(ctx, int64(7)).Return(nil),
	)

	require.NoError(t, svc.VerifyEmail(ctx, token))
}

func TestAuthService_VerifyEmail_AlreadyVerified(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := m.tokens.Issue(ctx, models.KindEmailVerification, 7)
	require.NoError(t, err)

	// the token must not be consumed when the account is already verified,
	// so clicking the link twice stays harmless
	m.users.EXPECT().FindByID(ctx, int64(7)).Return(models.User{UserID: 7, EmailVerified: true}, nil)

	require.NoError(t, svc.VerifyEmail(ctx, token))
}

func TestAuthService_VerifyEmail_Replayed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := m.tokens.Issue(ctx, models.KindEmailVerification, 7)
	require.NoError(t, err)

	m.users.EXPECT().FindByID(ctx, int64(7)).Return(models.User{UserID: 7}, nil)
	m.denylist.EXPECT().Consume(ctx, gomock.Any()).Return(store.ErrTokenAlreadyConsumed)

	require.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrTokenReplayed)
}

func TestAuthService_VerifyEmail_MissingUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := m.tokens.Issue(ctx, models.KindEmailVerification, 7)
	require.NoError(t, err)

	// a valid token bound to a deleted account reads as a dead token,
	// not as a 404
	m.users.EXPECT().FindByID(ctx, int64(7)).Return(models.User{}, store.ErrUserNotFound)

	err = svc.VerifyEmail(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.NotErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_VerifyEmail_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	require.ErrorIs(t, svc.VerifyEmail(context.Background(), "garbage"), ErrTokenInvalid)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().FindByUsername(ctx, "athlete").Return(models.User{
		UserID:        7,
		Username:      "athlete",
		PasswordHash:  mustHash(t, "Sup3r-Secret!"),
		EmailVerified: true,
	}, nil)

	result, err := svc.Login(ctx, "athlete", "Sup3r-Secret!")
	require.NoError(t, err)
	assert.False(t, result.TOTPPending)
	assert.NotEmpty(t, result.Pair.Access)
	assert.NotEmpty(t, result.Pair.Refresh)

	userID, err := svc.Authenticate(ctx, result.Pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), "", "password")
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Login(context.Background(), "athlete", "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().FindByUsername(ctx, "ghost").Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Login(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, ErrWrongCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().FindByUsername(ctx, "athlete").Return(models.User{
		UserID:        7,
		PasswordHash:  mustHash(t, "Sup3r-Secret!"),
		EmailVerified: true,
	}, nil)

	_, err := svc.Login(ctx, "athlete", "wrong-password")
	require.ErrorIs(t, err, ErrWrongCredentials)
}

func TestAuthService_Login_UnverifiedResendsMail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().FindByUsername(ctx, "athlete").Return(models.User{
		UserID:       7,
		Username:     "athlete",
		Email:        "athlete@example.com",
		PasswordHash: mustHash(t, "Sup3r-Secret!"),
	}, nil)

	sent := expectMail(m.mailer, "athlete@example.com", "Verify your email", nil, t)

	_, err := svc.Login(ctx, "athlete", "Sup3r-Secret!")
	require.ErrorIs(t, err, ErrAccountNotVerified)

	waitForMail(t, sent)
}

func TestAuthService_Login_TOTPEnabledReturnsPendingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	m.users.EXPECT().FindByUsername(ctx, "athlete").Return(models.User{
		UserID:        7,
		PasswordHash:  mustHash(t, "Sup3r-Secret!"),
		EmailVerified: true,
		TOTPEnabled:   true,
		TOTPSecret:    "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
	}, nil)

	result, err := svc.Login(ctx, "athlete", "Sup3r-Secret!")
	require.NoError(t, err)
	assert.True(t, result.TOTPPending)
	assert.NotEmpty(t, result.TOTPToken)
	assert.Empty(t, result.Pair.Access)
	assert.Empty(t, result.Pair.Refresh)

	claims, err := m.tokens.Verify(ctx, result.TOTPToken, models.KindTOTPPending)
	require.NoError(t, err)
	assert.Equal(t, models.KindTOTPPending, claims.Kind)
}

// ── Refresh / Authenticate ───────────────────────────────────────────────────

func TestAuthService_Refresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	pair, err := m.tokens.IssuePair(ctx, 7)
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.Access)
	assert.NotEmpty(t, fresh.Refresh)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	pair, err := m.tokens.IssuePair(ctx, 7)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.Access)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthService_Authenticate_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
