package domain

import "time"

// User represents a registered account owning a set of contacts.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	Confirmed    bool
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRefreshToken reports whether token equals the currently stored refresh token.
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && *u.RefreshToken == token
}
