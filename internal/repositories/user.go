package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-auth/internal/logger"
	"github.com/sbilibin2017/gw-auth/internal/models"
)

// Error variables returned on uniqueness violations. The database
// constraints are the source of truth for duplicates; these errors are
// produced from SQLSTATE 23505, not from application pre-checks.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

const pgUniqueViolation = "23505"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

// GetByUsername returns the user with the given username, or nil if none exists.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	return r.get(ctx, query, username)
}

func (r *UserReadRepository) get(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, r.ext(ctx), &user, query, arg)

	logger.Log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"arg", arg,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ext returns the request-scoped transaction when one is present in the
// context, falling back to the connection pool.
func (r *UserReadRepository) ext(ctx context.Context) sqlx.ExtContext {
	if tx := GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user row. Duplicate email or username is reported as
// ErrEmailExists or ErrUsernameExists based on the violated constraint.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) error {
	const query = `
		INSERT INTO users (user_id, email, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var ext sqlx.ExtContext = r.db
	if tx := GetTxFromContext(ctx); tx != nil {
		ext = tx
	}

	_, err := ext.ExecContext(ctx, query,
		user.UserID, user.Email, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)

	logger.Log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", user.UserID,
		"error", err,
	)

	return mapConflict(err)
}

// mapConflict converts a unique violation into the matching sentinel error.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailExists
	case strings.Contains(pgErr.ConstraintName, "username"):
		return ErrUsernameExists
	default:
		return err
	}
}
