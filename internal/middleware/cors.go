package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the given origins and answers preflight requests with 200
// rather than fiber's default 204.
func CORS(allowOrigins string) fiber.Handler {
	handler := cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-API-Key, X-Client-Info, apikey",
		AllowMethods: "GET,POST,PUT,OPTIONS",
	})

	return func(c *fiber.Ctx) error {
		err := handler(c)
		if c.Method() == fiber.MethodOptions && c.Response().StatusCode() == fiber.StatusNoContent {
			c.Status(fiber.StatusOK)
		}
		return err
	}
}
