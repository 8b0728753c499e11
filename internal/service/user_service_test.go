package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacts-api/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newUserFixture(t *testing.T) (UserService, *memUsers, *fakeAvatars, *domain.User) {
	t.Helper()
	users := newMemUsers()
	user := &domain.User{Username: "alice.b", Email: "a@x.com", Avatar: "https://cdn.example.com/avatars/old.png"}
	_, err := users.Create(context.Background(), user)
	require.NoError(t, err)
	avatars := &fakeAvatars{}
	return NewUserService(users, avatars, "/avatars/", nullLogger()), users, avatars, user
}

func TestUserService_UpdateAvatar(t *testing.T) {
	svc, users, avatars, user := newUserFixture(t)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...)

	updated, err := svc.UpdateAvatar(context.Background(), user, bytes.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "image/png", avatars.uploadedType)
	assert.Equal(t, body, avatars.uploadedBody, "sniffing must not drop bytes")
	assert.True(t, strings.HasPrefix(avatars.uploadedKey, "avatars/aliceb-"), avatars.uploadedKey)
	assert.True(t, strings.HasSuffix(avatars.uploadedKey, ".png"))

	assert.Equal(t, "https://cdn.example.com/"+avatars.uploadedKey, updated.Avatar)
	assert.Equal(t, updated.Avatar, users.stored("a@x.com").Avatar)
	assert.Equal(t, []string{"https://cdn.example.com/avatars/old.png"}, avatars.deleted)
}

func TestUserService_UpdateAvatarSmallFile(t *testing.T) {
	svc, _, avatars, user := newUserFixture(t)

	_, err := svc.UpdateAvatar(context.Background(), user, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, avatars.uploadedBody)
}

func TestUserService_UpdateAvatarRejectsNonImage(t *testing.T) {
	svc, users, avatars, user := newUserFixture(t)

	_, err := svc.UpdateAvatar(context.Background(), user, strings.NewReader("just some text"))
	assertKind(t, err, ErrInvalidAvatar)
	assert.Empty(t, avatars.uploadedKey)
	assert.Equal(t, "https://cdn.example.com/avatars/old.png", users.stored("a@x.com").Avatar)
}

func TestUserService_UpdateAvatarUploadFailure(t *testing.T) {
	svc, users, avatars, user := newUserFixture(t)
	avatars.err = errors.New("access denied")

	_, err := svc.UpdateAvatar(context.Background(), user, bytes.NewReader(pngHeader))
	require.Error(t, err)
	assert.ErrorIs(t, err, avatars.err)
	assert.Equal(t, "https://cdn.example.com/avatars/old.png", users.stored("a@x.com").Avatar)
	assert.Empty(t, avatars.deleted)
}

func TestGravatarURL(t *testing.T) {
	assert.Equal(t, "https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24", GravatarURL(" A@X.com "))
}
