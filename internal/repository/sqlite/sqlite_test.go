package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.ContactRepository) {
	t.Helper()
	db := openTestDB(t)
	users := NewUserRepository(db)
	contacts := NewContactRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, contacts.Init(context.Background()))
	return users, contacts
}

func createUser(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{Username: "user_" + email, Email: email, PasswordHash: "hash"}
	_, err := users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}
