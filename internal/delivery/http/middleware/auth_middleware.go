package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/infrastructure/identity"
)

const (
	CtxUserKey  = "identity_user"
	CtxTokenKey = "access_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		usr, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return NewAppError(fiber.StatusUnauthorized, "Invalid or expired session", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}

		c.Locals(CtxUserKey, usr)
		c.Locals(CtxTokenKey, token)
		return c.Next()
	}
}

// Optional attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return c.Next()
		}
		if usr, err := m.auth.Authenticate(c.Context(), token); err == nil {
			c.Locals(CtxUserKey, usr)
			c.Locals(CtxTokenKey, token)
		}
		return c.Next()
	}
}

func CurrentUser(c fiber.Ctx) (identity.User, bool) {
	usr, ok := c.Locals(CtxUserKey).(identity.User)
	return usr, ok
}

func AccessToken(c fiber.Ctx) string {
	tok, _ := c.Locals(CtxTokenKey).(string)
	return tok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
