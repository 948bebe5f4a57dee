package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"swadesh-intern/internal/logging"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger logrus.FieldLogger
}

func NewAccessLogMiddleware(logger logrus.FieldLogger) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logging.OrDiscard(logger)}
}

// Middleware tags every request with an X-Request-ID and writes one access
// line after the response. Query strings are left out of the path since
// tokens sometimes travel there.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		entry := m.logger.WithFields(logrus.Fields{
			"rid":        rid,
			"ip":         c.IP(),
			"host":       c.Hostname(),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    time.Since(start).String(),
			"req_bytes":  c.Request().Header.ContentLength(),
			"resp_bytes": len(c.Response().Body()),
			"ua":         c.Get("User-Agent"),
			"referer":    c.Get("Referer"),
		})
		if c.Response().StatusCode() >= 500 {
			entry.Warn("HTTP access")
		} else {
			entry.Info("HTTP access")
		}

		return err
	}
}
