package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/domain/setting"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/infrastructure/upload"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type AdminService interface {
	Stats(ctx context.Context) (usecase.Stats, error)
	ListAdmins(ctx context.Context, actor account.Admin) ([]account.Admin, error)
	CreateAdmin(ctx context.Context, actor account.Admin, in usecase.CreateAdminInput) (account.Admin, error)
	DeleteAdmin(ctx context.Context, actor account.Admin, targetID string) error
	UploadPhoto(ctx context.Context, actor account.Admin, f upload.File) (string, error)
}

type PasswordChanger interface {
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
}

type MaintenanceSwitch interface {
	SetMaintenance(ctx context.Context, on bool, updatedBy string) (setting.System, error)
}

type AdminHandler struct {
	uc            AdminService
	passwords     PasswordChanger
	maintenance   MaintenanceSwitch
	maxPhotoBytes int64
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type maintenanceRequest struct {
	Enabled *bool `json:"enabled"`
}

type maintenanceResponse struct {
	Maintenance bool   `json:"maintenance"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

type photoResponse struct {
	PhotoURL string `json:"photo_url"`
}

func NewAdminHandler(uc AdminService, passwords PasswordChanger, maintenance MaintenanceSwitch, maxPhotoBytes int64) *AdminHandler {
	return &AdminHandler{uc: uc, passwords: passwords, maintenance: maintenance, maxPhotoBytes: maxPhotoBytes}
}

func (h *AdminHandler) HandleMe(c fiber.Ctx) error {
	a, ok := middleware.CurrentAdmin(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusForbidden, middleware.MsgAccessDenied, nil, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAdminResponse(a))
}

func (h *AdminHandler) HandleStats(c fiber.Ctx) error {
	s, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, s)
}

func (h *AdminHandler) HandleListAdmins(c fiber.Ctx) error {
	actor, _ := middleware.CurrentAdmin(c)
	items, err := h.uc.ListAdmins(c.Context(), actor)
	if err != nil {
		return mapAdminError(err)
	}
	out := make([]dto.AdminResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.NewAdminResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *AdminHandler) HandleCreateAdmin(c fiber.Ctx) error {
	actor, _ := middleware.CurrentAdmin(c)
	var req createAdminRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	created, err := h.uc.CreateAdmin(c.Context(), actor, usecase.CreateAdminInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Admin created", dto.NewAdminResponse(created))
}

func (h *AdminHandler) HandleDeleteAdmin(c fiber.Ctx) error {
	actor, _ := middleware.CurrentAdmin(c)
	if err := h.uc.DeleteAdmin(c.Context(), actor, c.Params("id")); err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, "Admin deleted", nil)
}

func (h *AdminHandler) HandleUploadPhoto(c fiber.Ctx) error {
	actor, _ := middleware.CurrentAdmin(c)
	fh, err := c.FormFile("photo")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Please choose an image.", nil, err)
	}
	data, err := readFormFile(fh, h.maxPhotoBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Image is too large.", nil, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Please choose an image.", nil, err)
	}

	url, err := h.uc.UploadPhoto(c.Context(), actor, upload.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile photo updated", photoResponse{PhotoURL: url})
}

func (h *AdminHandler) HandleChangePassword(c fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.passwords.ChangePassword(c.Context(), middleware.AccessToken(c), req.OldPassword, req.NewPassword); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Password updated successfully.", nil)
}

func (h *AdminHandler) HandleSetMaintenance(c fiber.Ctx) error {
	actor, _ := middleware.CurrentAdmin(c)
	var req maintenanceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Enabled == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "enabled is required", nil, nil)
	}

	s, err := h.maintenance.SetMaintenance(c.Context(), *req.Enabled, actor.Email)
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, usecase.MaintenanceToast(s.MaintenanceMode), maintenanceResponse{
		Maintenance: s.MaintenanceMode,
		UpdatedBy:   s.UpdatedBy,
	})
}

func mapAdminError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := validationError(err, nil); ok {
		return appErr
	}

	var perr *identity.ProviderError
	switch {
	case errors.Is(err, usecase.ErrSuperAdminOnly):
		return middleware.NewAppError(fiber.StatusForbidden, "Super admin access required", nil, err)
	case errors.Is(err, usecase.ErrCannotDeleteSelf):
		return middleware.NewAppError(fiber.StatusBadRequest, "You cannot delete your own account.", nil, err)
	case errors.Is(err, usecase.ErrCannotDeleteSuperAdmin):
		return middleware.NewAppError(fiber.StatusForbidden, "Super admin accounts cannot be deleted.", nil, err)
	case errors.Is(err, usecase.ErrNotAnImage):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Please choose an image file.", nil, err)
	case errors.Is(err, account.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Admin not found", nil, err)
	case errors.Is(err, account.ErrAlreadyExists), errors.Is(err, identity.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, identity.ErrWeakPassword):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Password must be at least 6 characters.", nil, err)
	case errors.Is(err, usecase.ErrUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Image uploads are not configured.", nil, err)
	case errors.As(err, &perr):
		return middleware.NewAppError(fiber.StatusBadRequest, identity.CleanMessage(perr.Message), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
