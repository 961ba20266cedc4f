package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
	StoreBackendFile     = "file"
	StoreBackendMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	ServerPort           string
	BaseURL              string
	FrontendURL          string
	StoreBackend         string
	StoreFallbackEnabled bool
	LocalStorePath       string
	DatabaseURL          string
	RedisURL             string
	RateLimit            string
	RabbitMQURL          string
	RabbitMQPrefetch     int
	AuthIssuer           string
	AuthJWKSURL          string
	AuthHS256Secret      string
	NotifyTiming         string
	EnableHSTS           bool
	WorkerDebugMode      bool
	ServerDebugMode      bool
	LogFormat            string
	OTELEnabled          bool
	OTELEndpoint         string
}

// Version is reported by /version and trace resources. Set at build time with
// -ldflags "-X github.com/benvon/replan/internal/config.Version=...".
var Version = "dev"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
		StoreBackend:         strings.ToLower(getEnv("STORE_BACKEND", StoreBackendFile)),
		StoreFallbackEnabled: getEnvBool("STORE_FALLBACK_ENABLED", true),
		LocalStorePath:       getEnv("LOCAL_STORE_PATH", "./data/replan.json"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		RateLimit:            getEnv("RATE_LIMIT", "20-S"),
		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch:     getEnvInt("RABBITMQ_PREFETCH", 1),
		AuthIssuer:           getEnv("AUTH_ISSUER", ""),
		AuthJWKSURL:          getEnv("AUTH_JWKS_URL", ""),
		AuthHS256Secret:      getEnv("AUTH_HS256_SECRET", ""),
		NotifyTiming:         getEnv("NOTIFY_TIMING", "5_min_before"),
		EnableHSTS:           getEnvBool("ENABLE_HSTS", false),
		WorkerDebugMode:      getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:      getEnvBool("SERVER_DEBUG_MODE", false),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		OTELEnabled:          getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	case StoreBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND is redis")
		}
	case StoreBackendFile, StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (must be postgres, redis, file, or memory)", c.StoreBackend)
	}

	if c.StoreFallbackEnabled && c.LocalStorePath == "" {
		return fmt.Errorf("LOCAL_STORE_PATH is required when STORE_FALLBACK_ENABLED is set")
	}

	if c.RabbitMQPrefetch < 1 {
		return fmt.Errorf("RABBITMQ_PREFETCH must be at least 1")
	}

	if c.OTELEnabled && c.OTELEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}

	return nil
}

// AuthEnabled reports whether bearer tokens are verified
func (c *Config) AuthEnabled() bool {
	return c.AuthJWKSURL != "" || c.AuthHS256Secret != ""
}

// FrontendOrigins splits FRONTEND_URL into CORS origins
func (c *Config) FrontendOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
