package storage

import (
	"context"
	"io"
)

// AvatarStore keeps user avatar images in remote object storage.
type AvatarStore interface {
	// UploadAvatar stores body under key and returns the URL clients should load it from.
	UploadAvatar(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// DeleteAvatar removes the object previously served at url. URLs outside the store are ignored.
	DeleteAvatar(ctx context.Context, url string) error
}
