package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const APIKeyScheme = "dp"

// NewAPIKeySecret returns a random key prefix (8 hex chars) and a 32 byte
// secret. The prefix is stored in clear for lookup.
func NewAPIKeySecret() (prefix, secret string, err error) {
	p := make([]byte, 4)
	if _, err := rand.Read(p); err != nil {
		return "", "", fmt.Errorf("failed to generate key prefix: %w", err)
	}
	s := make([]byte, 32)
	if _, err := rand.Read(s); err != nil {
		return "", "", fmt.Errorf("failed to generate key secret: %w", err)
	}
	return hex.EncodeToString(p), base64.RawURLEncoding.EncodeToString(s), nil
}

func FormatAPIKey(prefix, secret string) string {
	return APIKeyScheme + "_" + prefix + "_" + secret
}

// ParseAPIKey splits dp_<prefix>_<secret>. The secret may itself contain
// underscores.
func ParseAPIKey(raw string) (prefix, secret string, ok bool) {
	parts := strings.SplitN(raw, "_", 3)
	if len(parts) != 3 || parts[0] != APIKeyScheme || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
