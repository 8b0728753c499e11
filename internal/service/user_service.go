package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"contacts-api/internal/domain"
	"contacts-api/internal/repository"
	"contacts-api/internal/storage"
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// UserService manages the profile of an authenticated user.
type UserService interface {
	UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader) (*domain.User, error)
}

type userService struct {
	users     repository.UserRepository
	avatars   storage.AvatarStore
	keyPrefix string
	logger    *logrus.Logger
}

func NewUserService(users repository.UserRepository, avatars storage.AvatarStore, keyPrefix string, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:     users,
		avatars:   avatars,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger,
	}
}

// UpdateAvatar stores file as the user's avatar. The content must sniff as an image.
func (s *userService) UpdateAvatar(ctx context.Context, user *domain.User, file io.Reader) (*domain.User, error) {
	br := bufio.NewReaderSize(file, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrInvalidAvatar
	}

	key := path.Join(s.keyPrefix, fmt.Sprintf("%s-%s%s", safeKeyPart(user.Username), uuid.NewString(), ext))
	url, err := s.avatars.UploadAvatar(ctx, key, br, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	updated, err := s.users.UpdateAvatar(ctx, user.ID, url)
	if err != nil {
		return nil, err
	}

	if user.Avatar != "" && user.Avatar != url {
		if err := s.avatars.DeleteAvatar(ctx, user.Avatar); err != nil {
			s.logger.WithField("user_id", user.ID).Warnf("delete previous avatar: %v", err)
		}
	}
	return updated, nil
}

func safeKeyPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, s)
}
