package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type MaintenanceChecker interface {
	InMaintenance(ctx context.Context) bool
	MaintenanceMessage() string
}

type MaintenanceMiddleware struct {
	checker MaintenanceChecker
	skip    []string
}

// NewMaintenanceMiddleware answers 503 with the maintenance screen for
// every path not starting with one of skip.
func NewMaintenanceMiddleware(checker MaintenanceChecker, skip ...string) *MaintenanceMiddleware {
	return &MaintenanceMiddleware{checker: checker, skip: skip}
}

func (m *MaintenanceMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		path := c.Path()
		for _, p := range m.skip {
			if strings.HasPrefix(path, p) {
				return c.Next()
			}
		}
		if !m.checker.InMaintenance(c.Context()) {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "300")
		return response.Error(c, fiber.StatusServiceUnavailable, m.checker.MaintenanceMessage(), fiber.Map{
			"screen": usecase.ScreenMaintenance,
			"title":  usecase.MaintenanceTitle,
		})
	}
}
