package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/usecase"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(mw ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	for _, h := range mw {
		app.Use(h)
	}
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(body) > 0 {
		_ = json.Unmarshal(body, &env)
	}
	return resp, env
}

func TestErrorMiddleware_MasksInternalErrors(t *testing.T) {
	app := newApp()
	app.Get("/boom", func(fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", fiber.Map{"x": 1}, errors.New("cause"))
	})
	app.Get("/gateway", func(fiber.Ctx) error {
		return NewAppError(fiber.StatusBadGateway, "Submission failed. Please try again.", fiber.Map{"state": "FORM"}, nil)
	})
	app.Get("/panic", func(fiber.Ctx) error { panic("nope") })

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", env.Message)
	assert.Equal(t, "null", string(env.Data))

	resp, env = call(t, app, httptest.NewRequest(http.MethodGet, "/gateway", nil))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Submission failed. Please try again.", env.Message)
	assert.JSONEq(t, `{"state":"FORM"}`, string(env.Data))

	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestErrorMiddleware_DefaultMessage(t *testing.T) {
	app := newApp()
	app.Get("/", func(fiber.Ctx) error { return NewAppError(fiber.StatusConflict, "", nil, nil) })

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", env.Message)
}

type stubAuth struct {
	users map[string]identity.User
}

func (s stubAuth) Authenticate(_ context.Context, token string) (identity.User, error) {
	u, ok := s.users[token]
	if !ok {
		return identity.User{}, identity.ErrInvalidToken
	}
	return u, nil
}

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuthMiddleware(stubAuth{users: map[string]identity.User{"good": {ID: "u-1"}}})
	app := newApp()
	app.Get("/me", auth.Middleware(), func(c fiber.Ctx) error {
		u, _ := CurrentUser(c)
		return c.SendString(u.ID + ":" + AccessToken(c))
	})
	app.Get("/maybe", auth.Optional(), func(c fiber.Ctx) error {
		_, ok := CurrentUser(c)
		if ok {
			return c.SendString("user")
		}
		return c.SendString("anon")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, _ := call(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, env := call(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired session", env.Message)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "u-1:good", string(body))

	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "anon", string(body))
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("  Bearer   abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		_, ok := bearerTokenFromHeader(h)
		assert.False(t, ok, h)
	}
}

type stubGate struct {
	admins map[string]account.Admin
}

func (s stubGate) Gate(_ context.Context, userID string) (account.Admin, error) {
	a, ok := s.admins[userID]
	if !ok {
		return account.Admin{}, usecase.ErrForbidden
	}
	return a, nil
}

type recordingSignOut struct {
	tokens []string
}

func (r *recordingSignOut) SignOut(_ context.Context, token string) error {
	r.tokens = append(r.tokens, token)
	return nil
}

func TestAdminMiddleware(t *testing.T) {
	auth := NewAuthMiddleware(stubAuth{users: map[string]identity.User{
		"admin":     {ID: "a-1"},
		"super":     {ID: "s-1"},
		"candidate": {ID: "c-1"},
	}})
	signOut := &recordingSignOut{}
	gate := NewAdminMiddleware(stubGate{admins: map[string]account.Admin{
		"a-1": {UserID: "a-1", Role: account.RoleAdmin, IsActive: true},
		"s-1": {UserID: "s-1", Role: account.RoleSuperAdmin, IsActive: true},
	}}, signOut, nil)

	app := newApp()
	grp := app.Group("/admin", auth.Middleware(), gate.Middleware())
	grp.Get("/stats", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	grp.Get("/admins", gate.SuperAdmin(), func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	get := func(path, token string) (*http.Response, envelope) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return call(t, app, req)
	}

	resp, env := get("/admin/stats", "candidate")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, MsgAccessDenied, env.Message)
	assert.Equal(t, []string{"candidate"}, signOut.tokens)

	resp, _ = get("/admin/stats", "admin")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get("/admin/admins", "admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = get("/admin/admins", "super")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type stubMaintenance struct{ on bool }

func (s stubMaintenance) InMaintenance(context.Context) bool { return s.on }
func (stubMaintenance) MaintenanceMessage() string           { return "Down for upgrades." }

func TestMaintenanceMiddleware(t *testing.T) {
	app := newApp(NewMaintenanceMiddleware(stubMaintenance{on: true}, "/health", "/api/v1/admin").Middleware())
	ok := func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/api/v1/jobs", ok)
	app.Get("/api/v1/admin/stats", ok)
	app.Get("/health", ok)

	resp, env := call(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Down for upgrades.", env.Message)
	assert.Equal(t, "300", resp.Header.Get(fiber.HeaderRetryAfter))
	assert.JSONEq(t, `{"screen":"maintenance","title":"We'll be right back!"}`, string(env.Data))

	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	off := newApp(NewMaintenanceMiddleware(stubMaintenance{}).Middleware())
	off.Get("/api/v1/jobs", ok)
	resp, _ = call(t, off, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type countingLimiter struct {
	allowed int
	calls   int
	keys    []string
}

func (l *countingLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) bool {
	l.calls++
	l.keys = append(l.keys, key)
	return l.calls <= l.allowed
}

func TestRateLimit(t *testing.T) {
	lim := &countingLimiter{allowed: 1}
	app := newApp()
	app.Post("/contact", RateLimit{Limiter: lim, Scope: "contact", Limit: 1, Window: time.Minute}.Middleware(),
		func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, _ := call(t, app, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := call(t, app, httptest.NewRequest(http.MethodPost, "/contact", nil))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, MsgTooManyRequests, env.Message)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
	require.Len(t, lim.keys, 2)
	assert.Contains(t, lim.keys[0], "contact")
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	app := newApp()
	app.Get("/", RateLimit{}.Middleware(), func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	resp, _ := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
