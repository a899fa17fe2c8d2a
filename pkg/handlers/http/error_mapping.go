package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	domain "github.com/ContentGuard/ModGate/pkg/domain/moderation"
)

// statusForError maps pipeline errors onto HTTP status codes. Unrecognized
// errors are internal; their details never reach the caller.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidContent):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return fiber.StatusServiceUnavailable, "classification service unavailable"
	case errors.Is(err, domain.ErrUpstreamError):
		return fiber.StatusBadGateway, "classification service error"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
