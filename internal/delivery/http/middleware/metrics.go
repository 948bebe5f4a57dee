package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/metrics"
)

// Metrics records request count and latency by route pattern. It must be
// registered before ErrorMiddleware so the final status is visible.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		metrics.InFlightInc()
		defer metrics.InFlightDec()

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if err != nil && errors.As(err, &fe) {
			status = fe.Code
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && status != fiber.StatusNotFound {
			route = r.Path
		}
		metrics.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}
