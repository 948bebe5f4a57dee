package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type SiteService interface {
	Landing(ctx context.Context) (usecase.Landing, error)
}

type SiteHandler struct {
	uc SiteService
}

func NewSiteHandler(uc SiteService) *SiteHandler {
	return &SiteHandler{uc: uc}
}

func (h *SiteHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/site", h.HandleLanding)
}

// HandleLanding is exempt from the maintenance gate so clients can render
// the maintenance screen from it.
func (h *SiteHandler) HandleLanding(c fiber.Ctx) error {
	l, err := h.uc.Landing(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLandingResponse(l))
}
