package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type JobService interface {
	List(ctx context.Context, board job.Board, limit, offset int) ([]job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Post(ctx context.Context, postedBy string, in usecase.PostJobInput) (job.Job, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type JobsHandler struct {
	uc JobService
}

type postJobRequest struct {
	Board            string `json:"board"`
	Title            string `json:"title"`
	CompanyName      string `json:"company_name"`
	Location         string `json:"location"`
	Type             string `json:"type"`
	Compensation     string `json:"compensation"`
	Experience       string `json:"experience"`
	Skills           string `json:"skills"`
	Description      string `json:"description"`
	Responsibilities string `json:"responsibilities"`
	Benefits         string `json:"benefits"`
	CompanyOverview  string `json:"company_overview"`
	Website          string `json:"website"`
	ApplyMethod      string `json:"apply_method"`
	ExternalLink     string `json:"external_link"`
}

func NewJobsHandler(uc JobService) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	board, ok := job.ParseBoard(c.Query("board", string(job.BoardCareers)))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown board", nil, nil)
	}
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.List(c.Context(), board, limit, offset)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobList(items))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) HandlePostJob(c fiber.Ctx) error {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusForbidden, middleware.MsgAccessDenied, nil, nil)
	}
	var req postJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	j, err := h.uc.Post(c.Context(), admin.Email, usecase.PostJobInput{
		Board:            job.Board(req.Board),
		Title:            req.Title,
		CompanyName:      req.CompanyName,
		Location:         req.Location,
		Type:             req.Type,
		Compensation:     req.Compensation,
		Experience:       req.Experience,
		Skills:           req.Skills,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Benefits:         req.Benefits,
		CompanyOverview:  req.CompanyOverview,
		Website:          req.Website,
		ApplyMethod:      req.ApplyMethod,
		ExternalLink:     req.ExternalLink,
	})
	if err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Opportunity Published!", dto.NewJobResponse(j))
}

func (h *JobsHandler) HandleDeleteJob(c fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Remove(c.Context(), id); err != nil {
		return mapJobError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job deleted.", nil)
}

func mapJobError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := validationError(err, nil); ok {
		return appErr
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
