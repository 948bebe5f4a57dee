package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
	"swadesh-intern/internal/workflow"
)

type AuthService interface {
	SignUp(ctx context.Context, in usecase.SignUpInput) (usecase.AuthResult, error)
	SignIn(ctx context.Context, in usecase.SignInInput) (usecase.AuthResult, error)
	SignOut(ctx context.Context, token string, userID string) error
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
	SendVerification(ctx context.Context, token string) error
	ConfirmVerification(ctx context.Context, verifyToken string, jobID *uuid.UUID) (identity.User, *workflow.View, error)
}

type AuthHandler struct {
	uc AuthService
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	JobID    string `json:"job_id"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	JobID    string `json:"job_id"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type confirmVerificationRequest struct {
	Token string `json:"token"`
	JobID string `json:"job_id"`
}

type verifiedResponse struct {
	User dto.UserResponse `json:"user"`
	Flow *workflow.View   `json:"flow,omitempty"`
}

func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the endpoints that need no session. The others
// are mounted by the router behind the auth middleware.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.SignUp)
	r.Post("/signin", h.SignIn)
	r.Get("/verify/confirm", h.ConfirmVerification)
	r.Post("/verify/confirm", h.ConfirmVerification)
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req signUpRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	jobID, err := optionalUUID(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	res, err := h.uc.SignUp(c.Context(), usecase.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		JobID:    jobID,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Account created", dto.NewSessionResponse(res.Session, res.Flow))
}

func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req signInRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	jobID, err := optionalUUID(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	res, err := h.uc.SignIn(c.Context(), usecase.SignInInput{Email: req.Email, Password: req.Password, JobID: jobID})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(res.Session, res.Flow))
}

func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	usr, _ := middleware.CurrentUser(c)
	if err := h.uc.SignOut(c.Context(), middleware.AccessToken(c), usr.ID); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Signed out", nil)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *AuthHandler) ChangePassword(c fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.uc.ChangePassword(c.Context(), middleware.AccessToken(c), req.OldPassword, req.NewPassword); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Password updated successfully.", nil)
}

func (h *AuthHandler) SendVerification(c fiber.Ctx) error {
	if err := h.uc.SendVerification(c.Context(), middleware.AccessToken(c)); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, "Verification email sent", nil)
}

// ConfirmVerification accepts the token either from the mailed link's
// query string or from a JSON body.
func (h *AuthHandler) ConfirmVerification(c fiber.Ctx) error {
	req := confirmVerificationRequest{Token: c.Query("token"), JobID: c.Query("job_id")}
	if c.Method() == fiber.MethodPost {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}
	jobID, err := optionalUUID(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	usr, flow, err := h.uc.ConfirmVerification(c.Context(), req.Token, jobID)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Email verified", verifiedResponse{User: dto.NewUserResponse(usr), Flow: flow})
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := validationError(err, nil); ok {
		return appErr
	}

	var perr *identity.ProviderError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, identity.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, identity.ErrIncorrectPassword):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Incorrect old password.", nil, err)
	case errors.Is(err, identity.ErrInvalidToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid or expired session", nil, err)
	case errors.Is(err, identity.ErrWeakPassword):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Password must be at least 6 characters.", nil, err)
	case errors.Is(err, identity.ErrAlreadyVerified):
		return middleware.NewAppError(fiber.StatusConflict, "Email already verified", nil, err)
	case errors.Is(err, identity.ErrUnsupported):
		return middleware.NewAppError(fiber.StatusBadRequest, "This action is not available.", nil, err)
	case errors.As(err, &perr):
		return middleware.NewAppError(fiber.StatusBadRequest, identity.CleanMessage(perr.Message), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
