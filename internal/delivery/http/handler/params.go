package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"swadesh-intern/internal/delivery/http/middleware"
	"swadesh-intern/internal/usecase"
	"swadesh-intern/internal/validate"
	"swadesh-intern/internal/workflow"
)

var errFileTooLarge = errors.New("uploaded file too large")

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseIDParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

// optionalUUID reads an optional uuid from a request body field.
func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// currentIdentity is nil for anonymous requests.
func currentIdentity(c fiber.Ctx) *workflow.Identity {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return usecase.WorkflowIdentity(usr)
}

// validationError turns a validate.FieldError into a 422 carrying its
// single message. ok is false for any other error.
func validationError(err error, data any) (error, bool) {
	if !errors.Is(err, validate.ErrInvalid) {
		return nil, false
	}
	return middleware.NewAppError(fiber.StatusUnprocessableEntity, validate.Message(err), data, err), true
}

func readFormFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return nil, errFileTooLarge
	}
	return b, nil
}
