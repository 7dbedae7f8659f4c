package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

type RequestObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// Metrics records every request against its matched route.
func Metrics(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		observer.ObserveRequest(c.Route().Path, c.Method(), status, time.Since(start))
		return err
	}
}
