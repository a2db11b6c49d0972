package middleware

import (
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired rejects callers whose stored role is not admin. The role is
// read from the user loaded by CurrentUser, not from token claims, so a
// demotion takes effect immediately.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
