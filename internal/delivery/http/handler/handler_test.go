package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/infrastructure/identity"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var (
	testUser  = identity.User{ID: "user-1", Email: "asha@example.com", DisplayName: "Asha Rao", EmailVerified: true}
	testAdmin = account.Admin{UserID: "admin-1", Name: "Root", Email: "root@swadeshintern.me", Role: account.RoleSuperAdmin, IsActive: true}
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	return app
}

// asUser attaches a signed-in user the way AuthMiddleware does.
func asUser(u identity.User) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserKey, u)
		c.Locals(middleware.CtxTokenKey, "tok-"+u.ID)
		return c.Next()
	}
}

func asAdmin(a account.Admin) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserKey, identity.User{ID: a.UserID, Email: a.Email})
		c.Locals(middleware.CtxTokenKey, "tok-"+a.UserID)
		c.Locals(middleware.CtxAdminKey, a)
		return c.Next()
	}
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}
