package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// NewHealthHandler accepts a nil cache; redis is optional.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Handle reports 503 only when the database is down. A missing cache
// degrades the site but does not take it out.
func (h *HealthHandler) Handle(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Database: "up", Cache: "disabled"}
	status := fiber.StatusOK
	if h.db == nil || h.db.Ping(ctx) != nil {
		out.Database = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			out.Cache = "down"
		}
	}
	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, out)
	}
	return response.Success(c, status, response.MessageOK, out)
}
