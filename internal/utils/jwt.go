package utils

import (
	"errors"
	"time"

	"droppay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionIssuer = "droppay-api"
	SessionTTL    = 24 * time.Hour
)

// GenerateSessionToken signs a merchant session with HS256.
func GenerateSessionToken(secret string, merchant *models.Merchant, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}
	if ttl == 0 {
		ttl = SessionTTL
	}

	now := time.Now()
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    SessionIssuer,
			Subject:   merchant.ID,
		},
		MerchantID: merchant.ID,
		PiUserID:   merchant.PiUserID,
		PiUsername: merchant.PiUsername,
		IsAdmin:    merchant.IsAdmin,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken parses and validates a session token string.
func ParseSessionToken(secret, tokenStr string) (*models.SessionClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(SessionIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.MerchantID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
