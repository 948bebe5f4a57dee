package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/logging"
	"swadesh-intern/internal/usecase"
)

const (
	CtxAdminKey = "admin"

	MsgAccessDenied = "Access Denied."
)

type AdminGatekeeper interface {
	Gate(ctx context.Context, userID string) (account.Admin, error)
}

type SignOuter interface {
	SignOut(ctx context.Context, token string) error
}

// AdminMiddleware admits authenticated users holding an active admin
// record. Everyone else is signed out and refused.
type AdminMiddleware struct {
	gate    AdminGatekeeper
	signOut SignOuter
	logger  logrus.FieldLogger
}

func NewAdminMiddleware(gate AdminGatekeeper, signOut SignOuter, logger logrus.FieldLogger) *AdminMiddleware {
	return &AdminMiddleware{gate: gate, signOut: signOut, logger: logging.OrDiscard(logger)}
}

// Middleware must run after AuthMiddleware.Middleware.
func (m *AdminMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		usr, ok := CurrentUser(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		a, err := m.gate.Gate(c.Context(), usr.ID)
		if err != nil {
			if !errors.Is(err, usecase.ErrForbidden) {
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
			if m.signOut != nil {
				if err := m.signOut.SignOut(c.Context(), AccessToken(c)); err != nil {
					m.logger.WithError(err).Debug("sign-out of refused user failed")
				}
			}
			m.logger.WithField("user_id", usr.ID).Warn("console access denied")
			return NewAppError(fiber.StatusForbidden, MsgAccessDenied, nil, err)
		}

		c.Locals(CtxAdminKey, a)
		return c.Next()
	}
}

// SuperAdmin must run after Middleware.
func (m *AdminMiddleware) SuperAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		a, ok := CurrentAdmin(c)
		if !ok || !a.IsSuper() {
			return NewAppError(fiber.StatusForbidden, "Super admin access required", nil, nil)
		}
		return c.Next()
	}
}

func CurrentAdmin(c fiber.Ctx) (account.Admin, bool) {
	a, ok := c.Locals(CtxAdminKey).(account.Admin)
	return a, ok
}
