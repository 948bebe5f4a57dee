package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/user"
	"swadesh-intern/internal/pkg/jwt"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uuid.UUID]user.User{}} }

func (m *memUsers) Create(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

func (m *memUsers) MarkVerified(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	now := time.Now()
	u.EmailVerifiedAt = &now
	m.byID[id] = u
	return u, nil
}

type captureSender struct {
	email, link string
}

func (c *captureSender) SendVerification(_ context.Context, email, link string) error {
	c.email, c.link = email, link
	return nil
}

func newLocal(t *testing.T) (*LocalProvider, *captureSender) {
	t.Helper()
	tokens := jwt.NewHMACService("a-secret", "v-secret", time.Hour, time.Hour)
	sender := &captureSender{}
	return NewLocalProvider(newMemUsers(), tokens, nil, sender, "https://swadeshintern.me/", nil), sender
}

func signUp(t *testing.T, p *LocalProvider) Session {
	t.Helper()
	s, err := p.SignUp(context.Background(), SignUpInput{Name: "Rahul Singh", Email: " Rahul@Gmail.com ", Phone: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	return s
}

func TestLocal_SignUpSignIn(t *testing.T) {
	p, _ := newLocal(t)
	s := signUp(t, p)
	assert.NotEmpty(t, s.AccessToken)
	assert.Equal(t, "rahul@gmail.com", s.User.Email)
	assert.Equal(t, "Rahul Singh", s.User.DisplayName)
	assert.False(t, s.User.EmailVerified)

	_, err := p.SignUp(context.Background(), SignUpInput{Email: "rahul@gmail.com", Password: "another1"})
	assert.True(t, errors.Is(err, ErrEmailTaken))

	in, err := p.SignIn(context.Background(), "RAHUL@gmail.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, in.User.ID)

	_, err = p.SignIn(context.Background(), "rahul@gmail.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = p.SignIn(context.Background(), "nobody@gmail.com", "secret1")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLocal_WeakPassword(t *testing.T) {
	p, _ := newLocal(t)
	_, err := p.SignUp(context.Background(), SignUpInput{Email: "a@gmail.com", Password: "123"})
	assert.True(t, errors.Is(err, ErrWeakPassword))
}

func TestLocal_SignOutRevokesToken(t *testing.T) {
	p, _ := newLocal(t)
	s := signUp(t, p)

	_, err := p.Authenticate(context.Background(), s.AccessToken)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(context.Background(), s.AccessToken))
	_, err = p.Authenticate(context.Background(), s.AccessToken)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	assert.NoError(t, p.SignOut(context.Background(), "garbage"))
}

func TestLocal_ChangePassword(t *testing.T) {
	p, _ := newLocal(t)
	s := signUp(t, p)
	ctx := context.Background()

	assert.True(t, errors.Is(p.ChangePassword(ctx, s.AccessToken, "nope", "newpass1"), ErrIncorrectPassword))
	assert.True(t, errors.Is(p.ChangePassword(ctx, s.AccessToken, "secret1", "x"), ErrWeakPassword))
	require.NoError(t, p.ChangePassword(ctx, s.AccessToken, "secret1", "newpass1"))

	_, err := p.SignIn(ctx, "rahul@gmail.com", "secret1")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = p.SignIn(ctx, "rahul@gmail.com", "newpass1")
	assert.NoError(t, err)
}

func TestLocal_VerificationFlow(t *testing.T) {
	p, sender := newLocal(t)
	s := signUp(t, p)
	ctx := context.Background()

	require.NoError(t, p.SendVerification(ctx, s.AccessToken))
	assert.Equal(t, "rahul@gmail.com", sender.email)
	require.True(t, strings.HasPrefix(sender.link, "https://swadeshintern.me/verify-email?token="))
	token := strings.TrimPrefix(sender.link, "https://swadeshintern.me/verify-email?token=")

	_, err := p.ConfirmVerification(ctx, s.AccessToken)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	u, err := p.ConfirmVerification(ctx, token)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	me, err := p.Authenticate(ctx, s.AccessToken)
	require.NoError(t, err)
	assert.True(t, me.EmailVerified)

	assert.True(t, errors.Is(p.SendVerification(ctx, s.AccessToken), ErrAlreadyVerified))
}

func TestCleanMessage(t *testing.T) {
	assert.Equal(t, "Error (auth/email-already-in-use).", CleanMessage("Firebase: Error (auth/email-already-in-use)."))
	assert.Equal(t, "User already registered", CleanMessage("supabase: User already registered"))
	assert.Equal(t, "plain", CleanMessage(" plain "))
}
