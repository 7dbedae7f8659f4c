package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Secret names looked up at request time.
const (
	PiAPIKey       = "PI_API_KEY"
	ServiceRoleKey = "SERVICE_ROLE_KEY"
	JWTSecret      = "JWT_SECRET"

	// AppWalletAddress is the app's own Pi wallet. It is optional; when set,
	// payments received there settle merchant transactions.
	AppWalletAddress = "PI_APP_WALLET_ADDRESS"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Warning: invalid %s=%q, using default: %s", key, val, defaultVal)
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// MissingSecretError reports a required secret that is not set.
type MissingSecretError struct {
	Name string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Name)
}

// SecretSource resolves secrets by name. Handlers read secrets per request
// so that rotating an env var does not need a restart.
type SecretSource interface {
	Lookup(name string) (string, bool)
}

// EnvSecrets reads secrets from the process environment.
type EnvSecrets struct{}

func (EnvSecrets) Lookup(name string) (string, bool) {
	val, ok := os.LookupEnv(name)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

// MapSecrets is a fixed secret set, mostly useful in tests.
type MapSecrets map[string]string

func (m MapSecrets) Lookup(name string) (string, bool) {
	val, ok := m[name]
	return val, ok && val != ""
}

// Require resolves every named secret, or returns a *MissingSecretError for
// the first one that is absent.
func Require(src SecretSource, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		val, ok := src.Lookup(name)
		if !ok {
			return nil, &MissingSecretError{Name: name}
		}
		out[name] = val
	}
	return out, nil
}

// AllowedOrigins returns the CORS origin list, "*" when unset.
func AllowedOrigins() string {
	return GetEnv("CORS_ALLOWED_ORIGINS", "*")
}
