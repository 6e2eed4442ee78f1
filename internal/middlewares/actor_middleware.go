package middlewares

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const actorIDLocal = "actorID"

// ActorIdentityMiddleware reads the caller identity from the X-Actor-ID
// header. Authentication itself happens upstream; by the time a request
// reaches this service the header carries a validated user id.
func ActorIdentityMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		actorID := c.Get("X-Actor-ID")
		if actorID == "" {
			log.Debug().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("Request rejected without actor identity")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "X-Actor-ID header is required",
			})
		}

		c.Locals(actorIDLocal, actorID)

		return c.Next()
	}
}

// ActorID returns the identity stored by ActorIdentityMiddleware.
func ActorID(c fiber.Ctx) string {
	actorID, _ := c.Locals(actorIDLocal).(string)

	return actorID
}
