package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/digipin/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, invalid_length, not_found, internal_error, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
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

// errFromDomain maps codec and domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without leaking details.
func errFromDomain(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	switch {
	case code == "not_found":
		return errNotFound(c, err.Error())
	case code == "conflict":
		return newError(c, fiber.StatusConflict, code, err.Error())
	case domain.IsClientError(err):
		return newError(c, fiber.StatusBadRequest, code, err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return errInternal(c, "internal error")
	}
}
