package errx

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ToFiber writes the error as a JSON response on a Fiber context.
// Non-errx errors are masked behind a generic internal error.
func ToFiber(c *fiber.Ctx, err error) error {
	var xerr *Error
	if !errors.As(err, &xerr) {
		xerr = &Error{
			Code:       "UNKNOWN_ERROR",
			Type:       TypeInternal,
			Message:    "An unexpected error occurred",
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	status := xerr.HTTPStatus
	if status == 0 {
		status = statusForType(xerr.Type)
	}
	return c.Status(status).JSON(xerr)
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation, TypeBadRequest:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
