package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/pinetwork"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the HTTP taxonomy: missing secrets
// are 500, Pi API failures 502 with the upstream body, domain errors their
// own status, anything else 500.
func respondError(c *fiber.Ctx, err error) error {
	var missing *config.MissingSecretError
	if errors.As(err, &missing) {
		log.Printf("Configuration error: %v", err)
		return response.ServerError(c, missing.Error())
	}

	var upstream *pinetwork.UpstreamError
	if errors.As(err, &upstream) {
		return response.ErrorWithDetails(c, fiber.StatusBadGateway, upstream.Error(), upstreamDetails(upstream.Body))
	}

	var domain *apperr.DomainError
	if errors.As(err, &domain) {
		return response.Error(c, apperr.StatusOf(err), err.Error())
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return response.ServerError(c, "Internal server error")
}

// upstreamDetails keeps a JSON body as JSON and anything else as text.
func upstreamDetails(body string) interface{} {
	if body != "" && json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
