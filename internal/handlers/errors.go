package handlers

import (
	"errors"
	"log"

	"refugio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps tagged service errors to HTTP status codes. Conflicting
// input (adoption conflicts, chip collisions, not-a-favourite) is a 400 like
// any other bad request; a duplicate registration is a 409; anything untagged
// is an unexpected failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrAlreadyRequested),
		errors.Is(err, services.ErrPetUnavailable),
		errors.Is(err, services.ErrNotFavourite),
		errors.Is(err, services.ErrChipTaken):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUserExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the JSON error envelope for a failed service call.
// Unexpected failures are logged with full detail but answered with only the
// generic message; tagged errors carry their own message to the caller.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s: %v", fallback, err)
		return c.Status(status).JSON(fiber.Map{
			"message": fallback,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}
