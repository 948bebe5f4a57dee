package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"swadesh-intern/internal/domain/user"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/pkg/jwt"
)

const minPasswordLength = 6

// LocalProvider keeps accounts in Postgres with bcrypt hashes and issues
// HMAC access tokens. Sign-out adds the token id to a revocation list.
type LocalProvider struct {
	users         user.Repository
	tokens        jwt.Service
	revoked       *Revocations
	sender        VerificationSender
	publicBaseURL string
	logger        logrus.FieldLogger
}

func NewLocalProvider(users user.Repository, tokens jwt.Service, revoked *Revocations, sender VerificationSender, publicBaseURL string, logger logrus.FieldLogger) *LocalProvider {
	if revoked == nil {
		revoked = NewRevocations(nil)
	}
	if sender == nil {
		sender = LogSender{Logger: logger}
	}
	return &LocalProvider{
		users:         users,
		tokens:        tokens,
		revoked:       revoked,
		sender:        sender,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logging.OrDiscard(logger),
	}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return Session{}, ErrInvalidCredentials
	}
	if len(in.Password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := p.users.Create(ctx, user.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}

	p.logger.WithField("user_id", u.ID).Info("account created")
	return p.issue(u)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	u, err := p.checkPassword(ctx, normalizeEmail(email), password)
	if err != nil {
		return Session{}, err
	}
	return p.issue(u)
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	c, err := p.tokens.ValidateAccessToken(token)
	if err != nil {
		// Already unusable.
		return nil
	}
	return p.revoked.Revoke(ctx, c.JTI(), c.Expiry())
}

func (p *LocalProvider) Authenticate(ctx context.Context, token string) (User, error) {
	u, _, err := p.authenticate(ctx, token)
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

func (p *LocalProvider) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	u, _, err := p.authenticate(ctx, token)
	if err != nil {
		return err
	}
	if _, err := p.checkPassword(ctx, u.Email, oldPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrIncorrectPassword
		}
		return err
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := p.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}
	p.logger.WithField("user_id", u.ID).Info("password changed")
	return nil
}

func (p *LocalProvider) SendVerification(ctx context.Context, token string) error {
	u, _, err := p.authenticate(ctx, token)
	if err != nil {
		return err
	}
	if u.Verified() {
		return ErrAlreadyVerified
	}
	vt, err := p.tokens.GenerateVerifyToken(u.ID, u.Email)
	if err != nil {
		return err
	}
	return p.sender.SendVerification(ctx, u.Email, verificationLink(p.publicBaseURL, vt))
}

func (p *LocalProvider) ConfirmVerification(ctx context.Context, verifyToken string) (User, error) {
	c, err := p.tokens.ValidateVerifyToken(verifyToken)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	u, err := p.users.GetByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return User{}, ErrInvalidToken
		}
		return User{}, err
	}
	if !strings.EqualFold(u.Email, c.Email) {
		return User{}, ErrInvalidToken
	}
	if u.Verified() {
		return toUser(u), nil
	}
	u, err = p.users.MarkVerified(ctx, u.ID)
	if err != nil {
		return User{}, err
	}
	p.logger.WithField("user_id", u.ID).Info("email verified")
	return toUser(u), nil
}

func (p *LocalProvider) authenticate(ctx context.Context, token string) (user.User, jwt.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.User{}, jwt.Claims{}, ErrInvalidToken
	}
	c, err := p.tokens.ValidateAccessToken(token)
	if err != nil {
		return user.User{}, jwt.Claims{}, ErrInvalidToken
	}
	revoked, err := p.revoked.IsRevoked(ctx, c.JTI())
	if err != nil {
		p.logger.WithError(err).Warn("revocation lookup failed")
	}
	if revoked {
		return user.User{}, jwt.Claims{}, ErrInvalidToken
	}
	u, err := p.users.GetByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, jwt.Claims{}, ErrInvalidToken
		}
		return user.User{}, jwt.Claims{}, err
	}
	return u, c, nil
}

func (p *LocalProvider) checkPassword(ctx context.Context, email, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, ErrInvalidCredentials
	}
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (p *LocalProvider) issue(u user.User) (Session, error) {
	tok, claims, err := p.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{AccessToken: tok, ExpiresAt: claims.Expiry(), User: toUser(u)}, nil
}

func toUser(u user.User) User {
	return User{
		ID:            u.ID.String(),
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		Phone:         u.Phone,
		EmailVerified: u.Verified(),
	}
}

var _ Provider = (*LocalProvider)(nil)
