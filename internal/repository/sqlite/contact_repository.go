package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone_num TEXT NOT NULL UNIQUE,
	birthday DATE NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createContactsUserIndex = `CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON contacts(user_id);`

const selectContact = `
SELECT id, user_id, first_name, last_name, email, phone_num, birthday, created_at, updated_at
FROM contacts`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createContactsTable); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createContactsUserIndex); err != nil {
		return fmt.Errorf("create contacts index: %w", err)
	}
	return nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO contacts (user_id, first_name, last_name, email, phone_num, birthday, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNum,
		dateOnly(contact.Birthday),
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert contact: %w", repository.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact last insert id: %w", err)
	}
	contact.ID = id
	contact.Birthday = dateOnly(contact.Birthday)
	return id, nil
}

func (r *ContactRepository) Get(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	return getContact(ctx, r.db, userID, id)
}

func (r *ContactRepository) List(ctx context.Context, userID int64) ([]domain.Contact, error) {
	return r.query(ctx, selectContact+`
WHERE user_id = ?
ORDER BY id`, userID)
}

func (r *ContactRepository) Update(ctx context.Context, userID, id int64, upd domain.ContactUpdate) (*domain.Contact, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE contacts SET email = ?, phone_num = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		upd.Email,
		upd.PhoneNum,
		time.Now().UTC(),
		id,
		userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update contact: %w", repository.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, id)
}

func (r *ContactRepository) Delete(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete contact: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	contact, err := getContact(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete contact: %w", err)
	}
	return contact, nil
}

// Search matches query case-insensitively against first name, last name and email.
// Folding happens in Go because sqlite's lower() only handles ASCII.
func (r *ContactRepository) Search(ctx context.Context, userID int64, query string) ([]domain.Contact, error) {
	all, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)

	var out []domain.Contact
	for _, c := range all {
		if containsFold(c.FirstName, query) || containsFold(c.LastName, query) || containsFold(c.Email, query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ContactRepository) BirthdaysBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Contact, error) {
	all, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	from = dateOnly(from)
	to = dateOnly(to)

	var out []domain.Contact
	for _, c := range all {
		day := c.BirthdayIn(from.Year())
		if day.Before(from) {
			// window may cross new year
			day = c.BirthdayIn(from.Year() + 1)
		}
		if !day.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getContact(ctx context.Context, q queryer, userID, id int64) (*domain.Contact, error) {
	row := q.QueryRowContext(ctx, selectContact+`
WHERE id = ? AND user_id = ?`, id, userID)
	contact, err := scanContact(row)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) query(ctx context.Context, query string, args ...any) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func scanContact(row scanner) (domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.PhoneNum,
		&c.Birthday,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, repository.ErrNotFound
		}
		return domain.Contact{}, fmt.Errorf("scan contact: %w", err)
	}
	c.Birthday = dateOnly(c.Birthday)
	return c, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
