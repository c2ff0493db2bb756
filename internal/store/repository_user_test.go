package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var userColumnNames = []string{
	"user_id", "username", "email", "password_hash",
	"email_verified", "totp_secret", "totp_enabled", "created_at",
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "bcrypt-hash",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(userColumnNames).
		AddRow(1, user.Username, user.Email, user.PasswordHash, false, nil, false, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash).
		WillReturnRows(rows)

	created, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Username != user.Username {
		t.Errorf("expected username %s, got %s", user.Username, created.Username)
	}
	if created.EmailVerified {
		t.Error("expected freshly created user to be unverified")
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "alice"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.Create(ctx, user)
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestCreate_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Username: "alice"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.Create(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindByUsername_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.
		NewRows(userColumnNames).
		AddRow(7, "alice", "alice@example.com", "hash", true, "SECRET", true, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(rows)

	found, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", found.UserID)
	}
	if found.TOTPSecret != "SECRET" {
		t.Errorf("expected scanned totp secret, got %q", found.TOTPSecret)
	}
}

func TestFindByUsername_NullTOTPSecret(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows(userColumnNames).
		AddRow(7, "alice", "alice@example.com", "hash", false, nil, false, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(rows)

	found, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.TOTPSecret != "" {
		t.Errorf("expected empty totp secret for NULL column, got %q", found.TOTPSecret)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows(userColumnNames).
		AddRow(3, "bobby", "bob@example.com", "hash", true, nil, false, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("bob@example.com").
		WillReturnRows(rows)

	found, err := repo.FindByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "bob@example.com" {
		t.Errorf("expected email to round-trip, got %q", found.Email)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("new-hash", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), 5, "new-hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetEmailVerified_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET email_verified").
		WithArgs(true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetEmailVerified(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetTOTPSecret_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET totp_secret").
		WithArgs("NEWSECRET", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetTOTPSecret(context.Background(), 5, "NEWSECRET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnableTOTP_UserMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET totp_enabled").
		WithArgs(true, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.EnableTOTP(context.Background(), 42)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for zero affected rows, got %v", err)
	}
}

func TestUpdate_EmptyUpdate(t *testing.T) {
	repo, _, db := newTestUserRepo(t)
	defer db.Close()

	err := repo.update(context.Background(), models.UserUpdate{UserID: 1})
	if !errors.Is(err, ErrBuildingSQLQuery) {
		t.Fatalf("expected ErrBuildingSQLQuery, got %v", err)
	}
}
