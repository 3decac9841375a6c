package http

import (
	"social_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes a JSON request body, mapping decode failures to a
// client error instead of a fiber internal error.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

// message is the body of plain acknowledgement responses.
func message(text string) fiber.Map {
	return fiber.Map{"message": text}
}
