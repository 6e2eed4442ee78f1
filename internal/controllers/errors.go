package controllers

import (
	"errors"

	"github.com/codenest/codenest/internal/domain"

	"github.com/gofiber/fiber/v3"
)

// errorResponse maps the domain error taxonomy to HTTP statuses. The
// sentinel is matched with errors.Is so wrapped errors map the same way.
func errorResponse(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrParentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidName):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrBlobWriteFailed), errors.Is(err, domain.ErrBlobDeleteFailed):
		status = fiber.StatusBadGateway
	case errors.Is(err, domain.ErrIntegrity):
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
