package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vizboard/vizboard/api/internal/middleware"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// requireUserID returns the authenticated caller
func requireUserID(c *fiber.Ctx) (string, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return "", apperrors.Unauthorized("user ID not found")
	}
	return userID, nil
}

// paramUUID parses a UUID route parameter
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.BadRequest("invalid " + name).WithDetail("param", name)
	}
	return id, nil
}

// parseBody decodes a JSON request body
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.BadRequest("invalid request body").WithError(err)
	}
	return nil
}
