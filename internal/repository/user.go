package repository

import (
	"context"

	"contacts-api/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// SetRefreshToken unconditionally stores token; nil clears it.
	SetRefreshToken(ctx context.Context, userID int64, token *string) error
	// SwapRefreshToken replaces old with next only if old is still the stored value.
	// It returns ErrTokenMismatch when another writer got there first.
	SwapRefreshToken(ctx context.Context, userID int64, old, next string) error
	SetConfirmed(ctx context.Context, userID int64) error
	UpdateAvatar(ctx context.Context, userID int64, url string) (*domain.User, error)
}
