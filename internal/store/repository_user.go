package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookups, and credential-state updates against
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, EmailVerified,
// CreatedAt).
//
// The INSERT uses the [createUser] query which returns all columns via a
// RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUserAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.Email, user.PasswordHash)

	var created models.User
	if err := scanUser(row, &created); err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("error: creating user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrUserAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindByUsername retrieves the user record with the given username.
//
// Error handling:
//   - No matching row → [ErrUserNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, findUserByUsername, username)
}

// FindByEmail retrieves the user record with the given email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, findUserByEmail, email)
}

// FindByID retrieves the user record with the given internal identifier.
func (r *userRepository) FindByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, findUserByID, userID)
}

// UpdatePasswordHash replaces the stored password digest of the user.
func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	return r.update(ctx, models.UserUpdate{UserID: userID, PasswordHash: &passwordHash})
}

// SetEmailVerified marks the user's email address as verified.
func (r *userRepository) SetEmailVerified(ctx context.Context, userID int64) error {
	verified := true
	return r.update(ctx, models.UserUpdate{UserID: userID, EmailVerified: &verified})
}

// SetTOTPSecret stores a freshly generated shared secret for the user.
// The second factor stays disabled until the secret is confirmed with a
// valid code via [EnableTOTP].
func (r *userRepository) SetTOTPSecret(ctx context.Context, userID int64, secret string) error {
	return r.update(ctx, models.UserUpdate{UserID: userID, TOTPSecret: &secret})
}

// EnableTOTP turns on the second factor for the user.
func (r *userRepository) EnableTOTP(ctx context.Context, userID int64) error {
	enabled := true
	return r.update(ctx, models.UserUpdate{UserID: userID, TOTPEnabled: &enabled})
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	var found models.User
	if err := scanUser(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}

		log.Err(err).Str("func", "*userRepository.findOne").Msg("error: finding user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// update applies a partial update built dynamically from the non-nil fields
// of the given [models.UserUpdate].
//
// Error handling:
//   - Empty update → [ErrBuildingSQLQuery].
//   - Zero affected rows → [ErrUserNotFound].
func (r *userRepository) update(ctx context.Context, userUpdate models.UserUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUserUpdateQuery(userUpdate)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.update").Msg("error: building update query")
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.update").Msg("error: executing update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser reads one user row; totp_secret is NULLable until enrollment.
func scanUser(row *sql.Row, user *models.User) error {
	var totpSecret sql.NullString
	if err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerified,
		&totpSecret,
		&user.TOTPEnabled,
		&user.CreatedAt,
	); err != nil {
		return err
	}

	user.TOTPSecret = totpSecret.String
	return nil
}
