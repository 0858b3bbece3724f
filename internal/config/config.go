package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"esim-pricing-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	DevMode  bool

	// Stores
	DatabaseURL     string
	SettingsBackend string // postgres | redis
	RedisAddr       string
	RedisPass       string

	// Exchange rates
	RatesURL     string
	RatesTimeout time.Duration

	// Pricing cache
	CacheTTL time.Duration

	// JWT
	JWT jwt.Config
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		DevMode:  getEnvBool("DEV_MODE", false),

		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SettingsBackend: strings.ToLower(getEnv("SETTINGS_BACKEND", "postgres")),
		RedisAddr:       getEnv("REDIS_ADDR", "redis-pricing:6379"),
		RedisPass:       getEnv("REDIS_PASS", ""),

		RatesURL:     getEnv("RATES_URL", ""),
		RatesTimeout: getEnvDuration("RATES_TIMEOUT", 10*time.Second),

		CacheTTL: getEnvDuration("PRICING_CACHE_TTL", 60*time.Second),

		JWT: jwt.Config{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   "esim-pricing",
			Audience: "esim-admins",
			TTL:      12 * time.Hour,
		},
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(v) == "true"
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare integers are treated as seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
