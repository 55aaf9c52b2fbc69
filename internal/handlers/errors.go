package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mkbpilot/mkb-api/internal/services"
)

// fail maps a service error onto the HTTP taxonomy. Anything outside
// the known sentinels is a 500 with a generic body so store and
// provider errors never leak to the client.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConfiguration):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Configuration missing"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
