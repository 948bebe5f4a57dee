package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	supabase "github.com/nedpals/supabase-go"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/logging"
)

// supabaseAuth is the subset of *supabase.Auth the provider calls.
type supabaseAuth interface {
	SignUp(ctx context.Context, credentials supabase.UserCredentials) (*supabase.User, error)
	SignIn(ctx context.Context, credentials supabase.UserCredentials) (*supabase.AuthenticatedDetails, error)
	User(ctx context.Context, userToken string) (*supabase.User, error)
	UpdateUser(ctx context.Context, userToken string, updateData map[string]interface{}) (*supabase.User, error)
	SignOut(ctx context.Context, userToken string) error
}

// SupabaseProvider delegates accounts to Supabase Auth. E-mail confirmation
// is handled by Supabase itself, so ConfirmVerification is unsupported.
type SupabaseProvider struct {
	auth   supabaseAuth
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewSupabaseProvider(url, key string, logger logrus.FieldLogger) *SupabaseProvider {
	client := supabase.CreateClient(url, key)
	return &SupabaseProvider{auth: client.Auth, logger: logging.OrDiscard(logger), now: time.Now}
}

func (p *SupabaseProvider) Name() string { return "supabase" }

func (p *SupabaseProvider) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}
	_, err := p.auth.SignUp(ctx, supabase.UserCredentials{
		Email:    email,
		Password: in.Password,
		Data: map[string]interface{}{
			"name":  strings.TrimSpace(in.Name),
			"phone": strings.TrimSpace(in.Phone),
			"role":  "CANDIDATE",
		},
	})
	if err != nil {
		return Session{}, p.mapError(err, "sign up")
	}
	p.logger.WithField("email", email).Info("supabase account created")
	return p.SignIn(ctx, email, in.Password)
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	details, err := p.auth.SignIn(ctx, supabase.UserCredentials{Email: email, Password: password})
	if err != nil {
		if isAuthFailure(err) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, p.mapError(err, "sign in")
	}
	if details == nil || details.AccessToken == "" {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		AccessToken: details.AccessToken,
		ExpiresAt:   p.now().Add(time.Duration(details.ExpiresIn) * time.Second),
		User:        fromSupabase(&details.User),
	}, nil
}

func (p *SupabaseProvider) SignOut(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := p.auth.SignOut(ctx, token); err != nil {
		p.logger.WithError(err).Warn("supabase sign-out failed")
		return p.mapError(err, "sign out")
	}
	return nil
}

func (p *SupabaseProvider) Authenticate(ctx context.Context, token string) (User, error) {
	if strings.TrimSpace(token) == "" {
		return User{}, ErrInvalidToken
	}
	u, err := p.auth.User(ctx, token)
	if err != nil || u == nil || u.ID == "" {
		return User{}, ErrInvalidToken
	}
	return fromSupabase(u), nil
}

func (p *SupabaseProvider) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	u, err := p.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if _, err := p.SignIn(ctx, u.Email, oldPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrIncorrectPassword
		}
		return err
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	if _, err := p.auth.UpdateUser(ctx, token, map[string]interface{}{"password": newPassword}); err != nil {
		return p.mapError(err, "update password")
	}
	p.logger.WithField("user_id", u.ID).Info("password changed")
	return nil
}

// SendVerification is a no-op beyond the checks: Supabase mails the
// confirmation link at sign-up.
func (p *SupabaseProvider) SendVerification(ctx context.Context, token string) error {
	u, err := p.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}
	p.logger.WithField("user_id", u.ID).Info("verification pending; supabase sends the confirmation mail")
	return nil
}

func (p *SupabaseProvider) ConfirmVerification(context.Context, string) (User, error) {
	return User{}, ErrUnsupported
}

func (p *SupabaseProvider) mapError(err error, op string) error {
	msg := CleanMessage(err.Error())
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "already exists"):
		return ErrEmailTaken
	case strings.Contains(lower, "password should be"), strings.Contains(lower, "weak password"):
		return &ProviderError{Message: msg, Err: ErrWeakPassword}
	}
	p.logger.WithError(err).WithField("op", op).Warn("supabase call failed")
	return &ProviderError{Message: msg, Err: err}
}

func isAuthFailure(err error) bool {
	var er *supabase.ErrorResponse
	if errors.As(err, &er) {
		return er.Code == http.StatusBadRequest || er.Code == http.StatusUnauthorized
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "invalid login") || strings.Contains(lower, "invalid_grant")
}

// supabaseUser is decoded through JSON so the confirmation timestamps read
// the same whether the SDK leaves them zero or null.
type supabaseUser struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	ConfirmedAt      *time.Time             `json:"confirmed_at"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at"`
	UserMetadata     map[string]interface{} `json:"user_metadata"`
}

func fromSupabase(u *supabase.User) User {
	if u == nil {
		return User{}
	}
	var su supabaseUser
	if b, err := json.Marshal(u); err == nil {
		_ = json.Unmarshal(b, &su)
	}
	confirmed := func(t *time.Time) bool { return t != nil && !t.IsZero() }
	meta := func(k string) string {
		if v, ok := su.UserMetadata[k].(string); ok {
			return v
		}
		return ""
	}
	return User{
		ID:            su.ID,
		Email:         su.Email,
		DisplayName:   meta("name"),
		Phone:         meta("phone"),
		EmailVerified: confirmed(su.ConfirmedAt) || confirmed(su.EmailConfirmedAt),
	}
}

var _ Provider = (*SupabaseProvider)(nil)
