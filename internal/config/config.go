package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
		// PublicBaseURL is the externally visible root used in emailed links.
		// Empty falls back to the request host.
		PublicBaseURL string
	}
	Log struct {
		Level string
	}
	Database struct {
		Path string
	}
	Auth struct {
		Secret     string
		Algorithm  string
		AccessTTL  time.Duration
		RefreshTTL time.Duration
		EmailTTL   time.Duration
		BcryptCost int
	}
	Mail struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
		FromName string
		SSL      bool
		Workers  int
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
	}
	AWS struct {
		Profile string
	}
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
}

var allowedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// Load reads configuration from .env, environment variables and an optional config file.
// Variables take the form CONTACTS_<SECTION>_<KEY>, e.g. CONTACTS_AUTH_SECRET.
func Load() (Config, error) {
	// existing environment wins over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	return load(v)
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("server.publicbaseurl", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "data/contacts.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.accessttl", 15*time.Minute)
	v.SetDefault("auth.refreshttl", 7*24*time.Hour)
	v.SetDefault("auth.emailttl", 7*24*time.Hour)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.fromname", "Contacts")
	v.SetDefault("mail.ssl", true)
	v.SetDefault("mail.workers", 4)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "avatars")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("ratelimit.requests", 2)
	v.SetDefault("ratelimit.window", 5*time.Second)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Auth.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Auth.Algorithm))
	return cfg, nil
}

// Validate reports the first setting that would prevent the server from running.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Auth.Secret) == "":
		return errors.New("auth secret is required")
	case !allowedAlgorithms[c.Auth.Algorithm]:
		return fmt.Errorf("unsupported auth algorithm %q", c.Auth.Algorithm)
	case c.Auth.AccessTTL <= 0, c.Auth.RefreshTTL <= 0, c.Auth.EmailTTL <= 0:
		return errors.New("auth token ttls must be positive")
	case c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	case c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0:
		return errors.New("rate limit requests and window must be positive")
	case c.Mail.Workers <= 0:
		return errors.New("mail workers must be positive")
	}
	return nil
}
