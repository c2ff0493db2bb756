package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/eriktmidtun/secfit-auth/models"
)

const (
	userColumns = `user_id, username, email, password_hash, email_verified, totp_secret, totp_enabled, created_at`

	createUser = `INSERT INTO users (username, email, password_hash)
    VALUES ($1, $2, $3)
    RETURNING user_id, username, email, password_hash, email_verified, totp_secret, totp_enabled, created_at;`

	findUserByUsername = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	consumeToken = `INSERT INTO token_denylist (jti, user_id, token_type, expires_at, consumed_at)
    VALUES ($1, $2, $3, $4, $5);`

	purgeExpiredTokens = `DELETE FROM token_denylist
    WHERE expires_at < $1;`
)

// buildUserUpdateQuery builds an UPDATE statement covering only the non-nil
// fields of the given update. Returns [ErrBuildingSQLQuery] when no field is
// set.
func buildUserUpdateQuery(update models.UserUpdate) (string, []any, error) {
	builder := sq.Update(models.User{}.TableName()).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"user_id": update.UserID})

	changed := false
	if update.PasswordHash != nil {
		builder = builder.Set("password_hash", *update.PasswordHash)
		changed = true
	}
	if update.EmailVerified != nil {
		builder = builder.Set("email_verified", *update.EmailVerified)
		changed = true
	}
	if update.TOTPSecret != nil {
		builder = builder.Set("totp_secret", *update.TOTPSecret)
		changed = true
	}
	if update.TOTPEnabled != nil {
		builder = builder.Set("totp_enabled", *update.TOTPEnabled)
		changed = true
	}

	if !changed {
		return "", nil, ErrBuildingSQLQuery
	}

	return builder.ToSql()
}
