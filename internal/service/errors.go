package service

import "fmt"

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
	KindUnprocessable
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "internal"
	}
}

// Error is a classified failure whose Detail is safe to show to clients.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

var (
	// ErrAccountExists is returned by Signup for an already registered email.
	ErrAccountExists = newError(KindConflict, "Account already exists")
	// ErrInvalidEmail is returned by Login for an unknown email.
	ErrInvalidEmail = newError(KindUnauthorized, "Invalid email")
	// ErrEmailNotConfirmed is returned by Login for accounts that have not verified their email.
	ErrEmailNotConfirmed = newError(KindUnauthorized, "Email not confirmed")
	// ErrInvalidPassword is returned by Login on password mismatch.
	ErrInvalidPassword = newError(KindUnauthorized, "Invalid password")
	// ErrCouldNotValidate collapses every token validation failure.
	ErrCouldNotValidate = newError(KindUnauthorized, "Could not validate credentials")
	// ErrInvalidRefreshToken is returned when a presented refresh token is not the stored one.
	ErrInvalidRefreshToken = newError(KindUnauthorized, "Invalid refresh token")
	// ErrInvalidEmailToken is returned when an email verification token cannot be decoded.
	ErrInvalidEmailToken = newError(KindUnprocessable, "Invalid token for email verification")
	// ErrVerificationFailed is returned when a verification token names no known user.
	ErrVerificationFailed = newError(KindBadRequest, "Verification error")
	// ErrContactNotFound is returned for contacts missing or owned by someone else.
	ErrContactNotFound = newError(KindNotFound, "Contact not found")
	// ErrContactExists is returned when a contact email or phone is already taken.
	ErrContactExists = newError(KindConflict, "Contact already exists")
	// ErrInvalidAvatar is returned for uploads that are not images.
	ErrInvalidAvatar = newError(KindUnprocessable, "Avatar must be an image")
)
