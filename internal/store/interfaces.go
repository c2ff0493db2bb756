package store

import (
	"context"
	"time"

	"github.com/eriktmidtun/secfit-auth/models"
)

// UserRepository persists user accounts and their credential state.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID int64) (models.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID int64) error
	SetTOTPSecret(ctx context.Context, userID int64, secret string) error
	EnableTOTP(ctx context.Context, userID int64) error
}

// TokenDenylistRepository enforces single use of typed tokens. Consume must
// be atomic: of any number of concurrent attempts on the same nonce, exactly
// one succeeds.
type TokenDenylistRepository interface {
	Consume(ctx context.Context, entry models.DenylistEntry) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
