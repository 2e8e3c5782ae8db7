package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	CORSOrigins   []string
	AdminEmails   []string
	GeoIPEndpoint string
	UploadDir     string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "news-web-backend"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		AdminEmails:   parseCSV(os.Getenv("ADMIN_EMAILS")),
		GeoIPEndpoint: fallback(os.Getenv("GEOIP_ENDPOINT"), "http://ip-api.com/json"),
		UploadDir:     fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
	}

	// Tokens live for 7 days unless overridden.
	hours := fallback(os.Getenv("JWT_TTL_HOURS"), "168")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.JWTTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.JWTTTL = 168 * time.Hour
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsAdminEmail reports whether the email is on the configured admin allowlist.
func (c Config) IsAdminEmail(email string) bool {
	for _, candidate := range c.AdminEmails {
		if strings.EqualFold(candidate, email) {
			return true
		}
	}
	return false
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
