// Package middleware provides HTTP middleware components for the application.
// It includes session and API key authentication, admin checks, CORS and
// request metrics for the fiber web framework.
package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"droppay/internal/config"
	"droppay/internal/models"
	"droppay/internal/utils"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// MerchantIDKey is the Locals key holding the authenticated merchant id.
const MerchantIDKey = "merchantID"

const APIKeyHeader = "X-API-Key"

type SessionParser interface {
	ParseSession(token string) (*models.SessionClaims, error)
}

type APIKeyAuthenticator interface {
	AuthenticateAPIKey(ctx context.Context, raw string) (*models.Merchant, error)
}

// AuthMiddleware validates merchant sessions and API keys.
type AuthMiddleware struct {
	sessions SessionParser
	apiKeys  APIKeyAuthenticator
}

func NewAuthMiddleware(sessions SessionParser, apiKeys APIKeyAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		apiKeys:  apiKeys,
	}
}

// Session requires a Bearer session token and stores its claims in the
// request context.
func (m *AuthMiddleware) Session(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.sessions.ParseSession(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		var missing *config.MissingSecretError
		if errors.As(err, &missing) {
			return response.ServerError(c, missing.Error())
		}
		log.Printf("Session validation error: %v", err)
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals(MerchantIDKey, claims.MerchantID)
	return c.Next()
}

// SessionOrAPIKey accepts either an X-API-Key header or a session token.
func (m *AuthMiddleware) SessionOrAPIKey(c *fiber.Ctx) error {
	raw := c.Get(APIKeyHeader)
	if raw == "" {
		return m.Session(c)
	}

	merchant, err := m.apiKeys.AuthenticateAPIKey(c.UserContext(), raw)
	if err != nil {
		log.Printf("API key rejected: %v", err)
		return response.Unauthorized(c)
	}
	c.Locals(MerchantIDKey, merchant.ID)
	return c.Next()
}

// AdminOnly must run after Session.
func AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetSessionClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if !claims.IsAdmin {
		log.Printf("Access denied: merchant %s is not an admin", claims.MerchantID)
		return response.Error(c, fiber.StatusForbidden, "Insufficient permissions")
	}
	return c.Next()
}

// MerchantID returns the authenticated merchant id set by this package.
func MerchantID(c *fiber.Ctx) string {
	id, _ := c.Locals(MerchantIDKey).(string)
	return id
}
