package service

import (
	"crypto/md5"
	"encoding/hex"
)

// GravatarURL returns the default Gravatar image URL for an email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
