package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

const MsgContactSent = "Thank you for reaching out. Our team will respond shortly."

type ContactService interface {
	Send(ctx context.Context, in usecase.ContactInput) error
}

type ContactHandler struct {
	uc ContactService
}

type contactRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Message  string `json:"message" form:"message"`
	Honeypot string `json:"_honey" form:"_honey"`
}

func NewContactHandler(uc ContactService) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// HandleSend answers honeypot hits exactly like real messages.
func (h *ContactHandler) HandleSend(c fiber.Ctx) error {
	var req contactRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	err := h.uc.Send(c.Context(), usecase.ContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		Honeypot: req.Honeypot,
	})
	if err != nil {
		if appErr, ok := validationError(err, nil); ok {
			return appErr
		}
		if errors.Is(err, usecase.ErrUnavailable) {
			return middleware.NewAppError(fiber.StatusServiceUnavailable, "Messaging is temporarily unavailable.", nil, err)
		}
		return middleware.NewAppError(fiber.StatusBadGateway, "Failed to send message. Please try again.", nil, err)
	}
	return response.Success(c, fiber.StatusOK, MsgContactSent, nil)
}
