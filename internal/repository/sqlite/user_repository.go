package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	avatar TEXT NOT NULL DEFAULT '',
	confirmed INTEGER NOT NULL DEFAULT 0,
	refresh_token TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectUser = `
SELECT id, username, email, password_hash, avatar, confirmed, refresh_token, created_at, updated_at
FROM users`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, avatar, confirmed, refresh_token, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.Confirmed,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %s: %w", user.Email, repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+`
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ?
WHERE id = ?`,
		token,
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) SwapRefreshToken(ctx context.Context, userID int64, old, next string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ?
WHERE id = ? AND refresh_token = ?`,
		next,
		time.Now().UTC(),
		userID,
		old,
	)
	if err != nil {
		return fmt.Errorf("swap refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("swap refresh token rows: %w", err)
	}
	if n == 0 {
		return repository.ErrTokenMismatch
	}
	return nil
}

func (r *UserRepository) SetConfirmed(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET confirmed = 1, updated_at = ?
WHERE id = ?`,
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("confirm user: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, url string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET avatar = ?, updated_at = ?
WHERE id = ?`,
		url,
		time.Now().UTC(),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user    domain.User
		refresh sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.Confirmed,
		&refresh,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if refresh.Valid {
		user.RefreshToken = &refresh.String
	}
	return &user, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
