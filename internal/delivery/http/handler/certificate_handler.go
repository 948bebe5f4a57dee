package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"swadesh-intern/internal/delivery/http/dto"
	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/domain/certificate"
	"swadesh-intern/internal/pkg/response"
	"swadesh-intern/internal/usecase"
)

type CertificateService interface {
	Verify(ctx context.Context, raw string) (usecase.VerifyResult, error)
	Issue(ctx context.Context, issuedBy string, in usecase.IssueCertificateInput) (usecase.IssuedCertificate, error)
	Export(ctx context.Context, w io.Writer) (int, error)
}

type CertificateHandler struct {
	uc CertificateService
}

type issueCertificateRequest struct {
	StudentName string `json:"student_name"`
	Domain      string `json:"domain"`
	Duration    string `json:"duration"`
	StartDate   string `json:"start_date"`
	AwardDate   string `json:"award_date"`
}

func NewCertificateHandler(uc CertificateService) *CertificateHandler {
	return &CertificateHandler{uc: uc}
}

// HandleVerify answers 200 for unknown ids too; found tells them apart.
func (h *CertificateHandler) HandleVerify(c fiber.Ctx) error {
	res, err := h.uc.Verify(c.Context(), c.Query("id"))
	if err != nil {
		return mapCertificateError(err)
	}
	out := dto.VerifyResponse{ID: res.ID, Found: res.Found}
	msg := "Certificate verified"
	if res.Certificate != nil {
		cr := dto.NewCertificateResponse(*res.Certificate)
		out.Certificate = &cr
	} else {
		msg = "Certificate not found"
	}
	return response.Success(c, fiber.StatusOK, msg, out)
}

func (h *CertificateHandler) HandleIssue(c fiber.Ctx) error {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusForbidden, middleware.MsgAccessDenied, nil, nil)
	}
	var req issueCertificateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	issued, err := h.uc.Issue(c.Context(), admin.Email, usecase.IssueCertificateInput{
		StudentName: req.StudentName,
		Domain:      req.Domain,
		Duration:    req.Duration,
		StartDate:   req.StartDate,
		AwardDate:   req.AwardDate,
	})
	if err != nil {
		return mapCertificateError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Certificate generated", dto.IssuedCertificateResponse{
		Certificate: dto.NewCertificateResponse(issued.Certificate),
		VerifyURL:   issued.VerifyURL,
	})
}

func (h *CertificateHandler) HandleExport(c fiber.Ctx) error {
	var buf bytes.Buffer
	n, err := h.uc.Export(c.Context(), &buf)
	if err != nil {
		return mapCertificateError(err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+usecase.CertificateExportFilename+`"`)
	c.Set("X-Total-Count", strconv.Itoa(n))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func mapCertificateError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := validationError(err, nil); ok {
		return appErr
	}

	switch {
	case errors.Is(err, usecase.ErrMissingCertificateID):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please enter a certificate ID.", nil, err)
	case errors.Is(err, certificate.ErrDuplicateID):
		return middleware.NewAppError(fiber.StatusConflict, "Certificate id collision, please retry.", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
