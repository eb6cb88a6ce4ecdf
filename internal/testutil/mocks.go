// Package testutil provides shared test utilities for the Vizboard API.
package testutil

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vizboard/vizboard/api/internal/middleware"
)

// TestUserMiddleware creates a middleware that sets the user ID in context.
// Use this in tests to simulate authenticated requests.
func TestUserMiddleware(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ContextKeyUserID, userID)
		return c.Next()
	}
}
