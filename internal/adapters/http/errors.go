package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bytefixx/gridcalc/internal/core/domain"
	"github.com/bytefixx/gridcalc/internal/pkg/geospatial"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, invalid_dms, outside_coverage, transform_error, ...
	Message   string `json:"message"` // Human-readable message
	Step      string `json:"step,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return writeError(c, APIError{Status: status, Code: code, Message: message})
}

func writeError(c *fiber.Ctx, e APIError) error {
	e.RequestID, _ = c.Locals("requestid").(string)
	return c.Status(e.Status).JSON(e)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// handleError maps core errors onto the API envelope.
func handleError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		fe *geospatial.FormatError
		te *domain.TransformError
	)
	switch {
	case errors.As(err, &ve):
		return errBadRequest(c, ve.Error())
	case errors.As(err, &fe):
		return newError(c, fiber.StatusBadRequest, "invalid_dms", fe.Error())
	case domain.IsClassificationMiss(err):
		return newError(c, fiber.StatusUnprocessableEntity, "outside_coverage", err.Error())
	case errors.As(err, &te):
		return writeError(c, APIError{
			Status:  fiber.StatusUnprocessableEntity,
			Code:    "transform_error",
			Message: te.Err.Error(),
			Step:    te.Step,
		})
	case errors.Is(err, domain.ErrBatchTooLarge):
		return newError(c, fiber.StatusRequestEntityTooLarge, "batch_too_large", err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, err.Error())
	}
}
