package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
	"swadesh-intern/internal/validate"
	"swadesh-intern/internal/workflow"
)

type ApplicationService interface {
	Open(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error)
	Apply(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error)
	Close(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error)
	CheckVerified(ctx context.Context, id *workflow.Identity, jobID uuid.UUID) (workflow.View, error)
	Submit(ctx context.Context, id *workflow.Identity, jobID uuid.UUID, form application.Form) (workflow.Result, error)
	Mine(ctx context.Context, applicantID string) ([]application.Application, error)
	ListForBoard(ctx context.Context, board job.Board, search string, limit, offset int) (usecase.ApplicantPage, error)
}

type ApplicationHandler struct {
	uc             ApplicationService
	maxResumeBytes int64
}

type applicantPageResponse struct {
	Items []dto.ApplicationResponse `json:"items"`
	Total int                       `json:"total"`
}

func NewApplicationHandler(uc ApplicationService, maxResumeBytes int64) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, maxResumeBytes: maxResumeBytes}
}

func (h *ApplicationHandler) HandleOpen(c fiber.Ctx) error {
	return h.step(c, h.uc.Open)
}

func (h *ApplicationHandler) HandleApply(c fiber.Ctx) error {
	return h.step(c, h.uc.Apply)
}

func (h *ApplicationHandler) HandleClose(c fiber.Ctx) error {
	return h.step(c, h.uc.Close)
}

// HandleVerified is polled from the verify prompt after the user clicked
// the link in their inbox.
func (h *ApplicationHandler) HandleVerified(c fiber.Ctx) error {
	return h.step(c, h.uc.CheckVerified)
}

func (h *ApplicationHandler) step(c fiber.Ctx, fn func(context.Context, *workflow.Identity, uuid.UUID) (workflow.View, error)) error {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	view, err := fn(c.Context(), currentIdentity(c), jobID)
	if err != nil {
		return mapApplicationError(err, view)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, view)
}

func (h *ApplicationHandler) HandleSubmit(c fiber.Ctx) error {
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	form := application.Form{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		LinkedIn: c.FormValue("linkedin"),
		College:  c.FormValue("college"),
		Degree:   c.FormValue("degree"),
		Stream:   c.FormValue("stream"),
		GradYear: c.FormValue("grad_year"),
		Skills:   c.FormValue("skills"),
	}
	if fh, err := c.FormFile("resume"); err == nil {
		data, err := readFormFile(fh, h.maxResumeBytes)
		if err != nil {
			if errors.Is(err, errFileTooLarge) {
				return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume is too large.", nil, err)
			}
			return middleware.NewAppError(fiber.StatusBadRequest, validate.MsgResumeRequired, nil, err)
		}
		form.Resume = &application.Resume{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	res, err := h.uc.Submit(c.Context(), currentIdentity(c), jobID, form)
	if err != nil {
		return mapApplicationError(err, res.View)
	}

	out := dto.SubmitResponse{Flow: res.View}
	if res.Application != nil {
		a := dto.NewApplicationResponse(*res.Application)
		out.Application = &a
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", out)
}

func (h *ApplicationHandler) HandleMine(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	items, err := h.uc.Mine(c.Context(), usr.ID)
	if err != nil {
		return mapApplicationError(err, workflow.View{})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMyApplications(items))
}

func (h *ApplicationHandler) HandleListForBoard(c fiber.Ctx) error {
	board, ok := job.ParseBoard(c.Query("board", string(job.BoardCareers)))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown board", nil, nil)
	}
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	page, err := h.uc.ListForBoard(c.Context(), board, strings.TrimSpace(c.Query("q")), limit, offset)
	if err != nil {
		return mapApplicationError(err, workflow.View{})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, applicantPageResponse{
		Items: dto.NewApplicationList(page.Items),
		Total: page.Total,
	})
}

// mapApplicationError carries the resulting flow view in the error body so
// the client can redraw without another round trip.
func mapApplicationError(err error, view workflow.View) error {
	if err == nil {
		return nil
	}
	var data any
	if view.State != "" {
		data = view
	}
	if appErr, ok := validationError(err, data); ok {
		return appErr
	}

	switch {
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, workflow.ErrNotAuthenticated), errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Please sign in to apply.", data, err)
	case errors.Is(err, workflow.ErrNotVerified):
		return middleware.NewAppError(fiber.StatusForbidden, "Please verify your email address to continue.", data, err)
	case errors.Is(err, application.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "You have already applied for this job.", data, err)
	case errors.Is(err, workflow.ErrExternalJob):
		return middleware.NewAppError(fiber.StatusConflict, "This job is handled on an external site.", data, err)
	case errors.Is(err, workflow.ErrSubmissionInFlight):
		return middleware.NewAppError(fiber.StatusConflict, "Your application is already being submitted.", data, err)
	case errors.Is(err, workflow.ErrIllegalTransition):
		return middleware.NewAppError(fiber.StatusConflict, "That step is not available right now.", data, err)
	case errors.Is(err, workflow.ErrUploadFailed), errors.Is(err, workflow.ErrPersistFailed):
		msg := view.Message
		if msg == "" {
			msg = "Submission failed. Please try again."
		}
		return middleware.NewAppError(fiber.StatusBadGateway, msg, data, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
