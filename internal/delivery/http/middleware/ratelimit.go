package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/infrastructure/cache"
	"swadesh-intern/internal/metrics"
)

const MsgTooManyRequests = "Too many requests. Please slow down."

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// RateLimit allows limit requests per window and client IP within scope.
// OnLimited replaces the default 429 envelope when set.
type RateLimit struct {
	Limiter   Limiter
	Scope     string
	Limit     int
	Window    time.Duration
	OnLimited fiber.Handler
}

func (r RateLimit) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if r.Limiter == nil || r.Limit <= 0 {
			return c.Next()
		}
		if r.Limiter.Allow(c.Context(), cache.RateLimitKey(r.Scope, c.IP()), r.Limit, r.Window) {
			return c.Next()
		}
		metrics.RecordRateLimited(r.Scope)
		c.Set(fiber.HeaderRetryAfter, "60")
		if r.OnLimited != nil {
			return r.OnLimited(c)
		}
		return NewAppError(fiber.StatusTooManyRequests, MsgTooManyRequests, nil, nil)
	}
}
