package repository

import (
	"context"
	"time"

	"contacts-api/internal/domain"
)

// ContactRepository persists contacts. Every operation is scoped to one owner.
type ContactRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, contact *domain.Contact) (int64, error)
	Get(ctx context.Context, userID, id int64) (*domain.Contact, error)
	List(ctx context.Context, userID int64) ([]domain.Contact, error)
	Update(ctx context.Context, userID, id int64, upd domain.ContactUpdate) (*domain.Contact, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Contact, error)
	Search(ctx context.Context, userID int64, query string) ([]domain.Contact, error)
	// BirthdaysBetween returns contacts whose next birthday on or after from falls no later than to.
	BirthdaysBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Contact, error)
}
