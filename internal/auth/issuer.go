package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultEmailTTL   = 7 * 24 * time.Hour
)

// IssuerConfig holds default token lifetimes. Zero values fall back to the package defaults.
type IssuerConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	EmailTTL   time.Duration
}

// Issuer mints access, refresh and email verification tokens.
type Issuer struct {
	codec *Codec
	cfg   IssuerConfig
	now   func() time.Time
}

func NewIssuer(codec *Codec, cfg IssuerConfig) *Issuer {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.EmailTTL == 0 {
		cfg.EmailTTL = DefaultEmailTTL
	}
	return &Issuer{
		codec: codec,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Codec exposes the codec used to sign tokens so callers can decode them.
func (i *Issuer) Codec() *Codec {
	return i.codec
}

// IssueAccessToken mints an access token; ttl 0 uses the configured default.
func (i *Issuer) IssueAccessToken(subject string, ttl time.Duration) (string, error) {
	return i.Issue(ScopeAccess, subject, orDefault(ttl, i.cfg.AccessTTL))
}

// IssueRefreshToken mints a refresh token; ttl 0 uses the configured default.
func (i *Issuer) IssueRefreshToken(subject string, ttl time.Duration) (string, error) {
	return i.Issue(ScopeRefresh, subject, orDefault(ttl, i.cfg.RefreshTTL))
}

// IssueEmailToken mints an email verification token; ttl 0 uses the configured default.
func (i *Issuer) IssueEmailToken(subject string, ttl time.Duration) (string, error) {
	return i.Issue(ScopeEmail, subject, orDefault(ttl, i.cfg.EmailTTL))
}

// Issue mints a token of the given scope valid for ttl from now.
func (i *Issuer) Issue(scope Scope, subject string, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	return i.codec.Encode(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
	})
}

func orDefault(ttl, def time.Duration) time.Duration {
	if ttl == 0 {
		return def
	}
	return ttl
}
