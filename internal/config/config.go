package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Hosted data backend (storage, query and session auth live there).
	DataClientURL string
	DataClientKey string
	DataJWTSecret string

	// Outbound messaging deep links shown on the landing page.
	WhatsAppNumber string

	CORSAllowedOrigins []string
	UseMemoryStore     bool
}

// PlaceholderWhatsAppNumber is shown when no business number is configured.
const PlaceholderWhatsAppNumber = "258XXXXXXXXX"

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DataClientURL:      getEnv("DATA_CLIENT_URL", ""),
		DataClientKey:      getEnv("DATA_CLIENT_KEY", ""),
		DataJWTSecret:      getEnv("DATA_JWT_SECRET", ""),
		WhatsAppNumber:     getEnv("WHATSAPP_NUMBER", PlaceholderWhatsAppNumber),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		UseMemoryStore:     getEnvAsBool("USE_MEMORY_STORE", false),
	}
}

// ConfigError reports required environment variables that are missing.
// It is fatal at startup, before any route is served.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.DataClientURL) == "" && !c.UseMemoryStore {
		missing = append(missing, "DATA_CLIENT_URL")
	}
	if strings.TrimSpace(c.DataClientKey) == "" && !c.UseMemoryStore {
		missing = append(missing, "DATA_CLIENT_KEY")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable into entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
