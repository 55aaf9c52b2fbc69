package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mkbpilot/mkb-api/internal/services"
)

// RequirePole guards a route group behind a pole assignment at the
// given privilege level (1 = admin, 5 = read-only). Runs after
// Protected().
func RequirePole(access *services.AccessService, poleName string, level int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if !access.HasAccess(c.Context(), userID, poleName, level) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient pole access",
			})
		}
		return c.Next()
	}
}
