package service

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"contacts-api/internal/domain"
	"contacts-api/internal/mailer"
	"contacts-api/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*domain.User{}}
}

func (m *memUsers) Init(context.Context) error { return nil }

func (m *memUsers) Create(_ context.Context, u *domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return 0, repository.ErrAlreadyExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.byID[u.ID] = &cp
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return m.copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.copyUser(u), nil
}

func (m *memUsers) SetRefreshToken(_ context.Context, id int64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if token == nil {
		u.RefreshToken = nil
		return nil
	}
	v := *token
	u.RefreshToken = &v
	return nil
}

func (m *memUsers) SwapRefreshToken(_ context.Context, id int64, old, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || !u.HasRefreshToken(old) {
		return repository.ErrTokenMismatch
	}
	u.RefreshToken = &next
	return nil
}

func (m *memUsers) SetConfirmed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

func (m *memUsers) UpdateAvatar(_ context.Context, id int64, url string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Avatar = url
	return m.copyUser(u), nil
}

func (m *memUsers) stored(email string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return m.copyUser(u)
		}
	}
	return nil
}

func (m *memUsers) copyUser(u *domain.User) *domain.User {
	cp := *u
	if u.RefreshToken != nil {
		v := *u.RefreshToken
		cp.RefreshToken = &v
	}
	return &cp
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Verification
}

func (r *recordingMailer) Dispatch(v mailer.Verification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, v)
}

func (r *recordingMailer) last() mailer.Verification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type fakeAvatars struct {
	uploadedKey  string
	uploadedType string
	uploadedBody []byte
	deleted      []string
	err          error
}

func (f *fakeAvatars) UploadAvatar(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploadedKey, f.uploadedType, f.uploadedBody = key, contentType, b
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeAvatars) DeleteAvatar(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
