package store

import (
	"context"
	"fmt"
	"time"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/jackc/pgerrcode"
)

// denylistRepository is the PostgreSQL-backed implementation of
// [TokenDenylistRepository]. Atomicity of Consume rests entirely on the
// primary-key constraint of the jti column: the first INSERT wins, every
// later one hits unique_violation.
type denylistRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDenylistRepository constructs a [TokenDenylistRepository] backed by the
// provided database connection and logger.
func NewDenylistRepository(db *DB, logger *logger.Logger) TokenDenylistRepository {
	logger.Debug().Msg("creating token denylist repository")
	return &denylistRepository{
		db:     db,
		logger: logger,
	}
}

// Consume records the token nonce as used.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrTokenAlreadyConsumed],
//     meaning some concurrent or earlier redemption got there first.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *denylistRepository) Consume(ctx context.Context, entry models.DenylistEntry) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, consumeToken,
		entry.JTI, entry.UserID, entry.Kind, entry.ExpiresAt, entry.ConsumedAt)
	if err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrTokenAlreadyConsumed
		default:
			log.Err(err).Str("func", "*denylistRepository.Consume").Msg("error: consuming token")
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return nil
}

// PurgeExpired deletes denylist rows whose tokens expired before now.
// Such rows are dead weight: the tokens they belong to would be rejected on
// expiry alone. Returns the number of rows removed.
func (r *denylistRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, purgeExpiredTokens, now)
	if err != nil {
		log.Err(err).Str("func", "*denylistRepository.PurgeExpired").Msg("error: purging expired tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
