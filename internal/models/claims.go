package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims identify a signed-in merchant. They replace the browser-side
// cached session: every protected request carries them explicitly.
type SessionClaims struct {
	jwt.RegisteredClaims
	MerchantID string `json:"merchant_id"`
	PiUserID   string `json:"pi_user_id"`
	PiUsername string `json:"pi_username"`
	IsAdmin    bool   `json:"is_admin"`
}
