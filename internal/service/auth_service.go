package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"contacts-api/internal/auth"
	"contacts-api/internal/domain"
	"contacts-api/internal/mailer"
	"contacts-api/internal/repository"
)

// TokenPair is returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// SignupInput carries the registration form.
type SignupInput struct {
	Username string
	Email    string
	Password string
	// BaseURL is prefixed to the confirmation link in the verification email.
	BaseURL string
}

// ConfirmStatus reports the outcome of a successful ConfirmEmail call.
type ConfirmStatus int

const (
	EmailConfirmed ConfirmStatus = iota
	EmailAlreadyConfirmed
)

func (s ConfirmStatus) Message() string {
	if s == EmailAlreadyConfirmed {
		return "Your email is already confirmed"
	}
	return "Email confirmed"
}

// VerificationMailer hands verification emails off for background delivery.
type VerificationMailer interface {
	Dispatch(msg mailer.Verification)
}

// AuthService orchestrates signup, login, refresh rotation and current user resolution.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
	ConfirmEmail(ctx context.Context, token string) (ConfirmStatus, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	issuer *auth.Issuer
	codec  *auth.Codec
	mailer VerificationMailer
	logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, issuer *auth.Issuer, mail VerificationMailer, logger *logrus.Logger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		codec:  issuer.Codec(),
		mailer: mail,
		logger: logger,
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	log := s.logger.WithField("email", email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Avatar:       GravatarURL(email),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	token, err := s.issuer.IssueEmailToken(user.Email, 0)
	if err != nil {
		// the account exists already; a missing email must not fail signup
		log.Errorf("issue email token: %v", err)
		return user, nil
	}
	s.mailer.Dispatch(mailer.Verification{
		To:       user.Email,
		Username: user.Username,
		BaseURL:  in.BaseURL,
		Token:    token,
	})
	log.Info("user signed up")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	log := s.logger.WithField("email", email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("login rejected: unknown email")
			return nil, ErrInvalidEmail
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.Confirmed {
		log.Debug("login rejected: email not confirmed")
		return nil, ErrEmailNotConfirmed
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Debug("login rejected: password mismatch")
		return nil, ErrInvalidPassword
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, err
	}
	// single active session: any previous refresh token is overwritten
	if err := s.users.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	log.Info("user logged in")
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.DecodeScope(refreshToken, auth.ScopeRefresh)
	if err != nil {
		s.logger.WithError(err).Debug("refresh rejected")
		return nil, ErrCouldNotValidate
	}
	log := s.logger.WithField("email", claims.Subject)

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("refresh rejected: unknown subject")
			return nil, ErrCouldNotValidate
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasRefreshToken(refreshToken) {
		log.Warn("refresh token does not match stored token, revoking")
		return nil, s.revoke(ctx, user)
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SwapRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenMismatch) {
			log.Warn("concurrent refresh lost the swap, revoking")
			return nil, s.revoke(ctx, user)
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return pair, nil
}

func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.DecodeScope(accessToken, auth.ScopeAccess)
	if err != nil {
		s.logger.WithError(err).Debug("access token rejected")
		return nil, ErrCouldNotValidate
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.WithField("email", claims.Subject).Debug("access token rejected: unknown subject")
			return nil, ErrCouldNotValidate
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// ConfirmEmail accepts any validly signed, unexpired token regardless of scope.
func (s *authService) ConfirmEmail(ctx context.Context, token string) (ConfirmStatus, error) {
	claims, err := s.codec.Decode(token)
	if err != nil || claims.Subject == "" {
		s.logger.WithError(err).Debug("email token rejected")
		return 0, ErrInvalidEmailToken
	}
	log := s.logger.WithField("email", claims.Subject)

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrVerificationFailed
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	if user.Confirmed {
		return EmailAlreadyConfirmed, nil
	}
	if err := s.users.SetConfirmed(ctx, user.ID); err != nil {
		return 0, fmt.Errorf("confirm email: %w", err)
	}
	log.Info("email confirmed")
	return EmailConfirmed, nil
}

func (s *authService) issuePair(subject string) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(subject, 0)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefreshToken(subject, 0)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// revoke clears the stored refresh token and returns the error the caller should report.
func (s *authService) revoke(ctx context.Context, user *domain.User) error {
	if err := s.users.SetRefreshToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return ErrInvalidRefreshToken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
