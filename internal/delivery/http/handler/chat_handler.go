package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"swadesh-intern/internal/chat"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type ChatService interface {
	Ask(ctx context.Context, message string) (string, error)
	Start(ctx context.Context) (usecase.ChatTurn, error)
	Send(ctx context.Context, id uuid.UUID, message string) (usecase.ChatTurn, error)
}

type ChatHandler struct {
	uc ChatService
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

type chatTurnResponse struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	Stage          chat.Stage `json:"stage"`
	Name           string     `json:"name,omitempty"`
	Reply          string     `json:"reply"`
}

func NewChatHandler(uc ChatService) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// HandleAsk keeps the bare {reply} contract of the site widget: no
// envelope, 405 with a plain body for anything but POST.
func (h *ChatHandler) HandleAsk(c fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowHeaders, fiber.HeaderContentType)

	if c.Method() != fiber.MethodPost {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusMethodNotAllowed).SendString("Method Not Allowed")
	}

	var req chatRequest
	body := c.Body()
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(chatReply{Reply: chat.MsgFailure})
		}
	}

	reply, err := h.uc.Ask(c.Context(), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(chatReply{Reply: chat.MsgMissingMessage})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(chatReply{Reply: chat.MsgFailure})
	}
	return c.Status(fiber.StatusOK).JSON(chatReply{Reply: reply})
}

func (h *ChatHandler) HandleStart(c fiber.Ctx) error {
	turn, err := h.uc.Start(c.Context())
	if err != nil {
		return mapChatError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, newChatTurnResponse(turn))
}

func (h *ChatHandler) HandleSend(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req chatRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	turn, err := h.uc.Send(c.Context(), id, req.Message)
	if err != nil {
		return mapChatError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, newChatTurnResponse(turn))
}

func newChatTurnResponse(t usecase.ChatTurn) chatTurnResponse {
	return chatTurnResponse{
		ConversationID: t.Conversation.ID,
		Stage:          t.Conversation.Stage,
		Name:           t.Conversation.Name,
		Reply:          t.Reply,
	}
}

func mapChatError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chat.ErrEmptyMessage):
		return middleware.NewAppError(fiber.StatusBadRequest, chat.MsgMissingMessage, nil, err)
	case errors.Is(err, usecase.ErrConversationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Conversation expired, please start again.", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
