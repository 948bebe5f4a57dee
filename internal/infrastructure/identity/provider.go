// Package identity adapts account providers to one interface: a local
// Postgres-backed provider and Supabase Auth. Handlers only ever see
// Provider, User and the sentinel errors below.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("incorrect old password")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrWeakPassword       = errors.New("password too weak")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUnsupported        = errors.New("operation not supported by identity provider")
)

type User struct {
	ID            string
	Email         string
	DisplayName   string
	Phone         string
	EmailVerified bool
}

// Session is the result of a successful sign-in. Only the access token is
// handed to clients.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type Provider interface {
	Name() string
	SignUp(ctx context.Context, in SignUpInput) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (User, error)
	// ChangePassword re-authenticates with oldPassword before updating.
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
	SendVerification(ctx context.Context, token string) error
	ConfirmVerification(ctx context.Context, verifyToken string) (User, error)
}

// ProviderError carries a message reported by the upstream provider.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Err }

var providerPrefixes = []string{"Firebase: ", "supabase: ", "AuthApiError: "}

// CleanMessage strips the provider name some SDKs put in front of error
// messages.
func CleanMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	for _, p := range providerPrefixes {
		if strings.HasPrefix(msg, p) {
			return strings.TrimSpace(strings.TrimPrefix(msg, p))
		}
	}
	return msg
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
