package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONTACTS_AUTH_SECRET", "s3cret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 2, cfg.RateLimit.Requests)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "avatars", cfg.Storage.KeyPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONTACTS_AUTH_SECRET", "s3cret")
	t.Setenv("CONTACTS_AUTH_ALGORITHM", "hs512")
	t.Setenv("CONTACTS_AUTH_ACCESSTTL", "30m")
	t.Setenv("CONTACTS_MAIL_HOST", "smtp.example.com")
	t.Setenv("CONTACTS_MAIL_PORT", "587")
	t.Setenv("CONTACTS_MAIL_SSL", "false")
	t.Setenv("CONTACTS_STORAGE_PUBLICBASEURL", "https://cdn.example.com")
	t.Setenv("CONTACTS_SERVER_PUBLICBASEURL", "https://contacts.example.com/")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, "HS512", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.SSL)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "https://contacts.example.com/", cfg.Server.PublicBaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.Secret = "s3cret"
		c.Auth.Algorithm = "HS256"
		c.Auth.AccessTTL = time.Minute
		c.Auth.RefreshTTL = time.Hour
		c.Auth.EmailTTL = time.Hour
		c.Auth.BcryptCost = 10
		c.RateLimit.Requests = 2
		c.RateLimit.Window = time.Second
		c.Mail.Workers = 1
		return c
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty secret", mutate: func(c *Config) { c.Auth.Secret = "  " }},
		{name: "rsa algorithm", mutate: func(c *Config) { c.Auth.Algorithm = "RS256" }},
		{name: "zero access ttl", mutate: func(c *Config) { c.Auth.AccessTTL = 0 }},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.Auth.RefreshTTL = -time.Second }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 1 }},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.Auth.BcryptCost = 32 }},
		{name: "no rate limit", mutate: func(c *Config) { c.RateLimit.Requests = 0 }},
		{name: "no mail workers", mutate: func(c *Config) { c.Mail.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
