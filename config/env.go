package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

var ErrMissingEnv = errors.New("missing required environment variable")

type Config struct {
	AppEnv   string
	Port     string
	AppURL   string
	LogLevel string

	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	MigrationPath string

	JWTSecret string
	JWTExpiry time.Duration

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	OriginURL string

	// AllowUnverify lets admins flip isVerified back to false.
	AllowUnverify    bool
	ActivityCacheTTL time.Duration
	OAuthProviders   map[string]string
}

// LoadConfig reads .env (if present) and the process environment.
// DATABASE_URL and JWT_SECRET are required.
func LoadConfig() (*Config, error) {
	if os.Getenv("VERCEL") == "" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "8082")),
		AppURL:   getEnv("APP_URL", "http://localhost:5173"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    cast.ToInt32(getEnv("DB_MAX_CONNS", "25")),
		DBMinConns:    cast.ToInt32(getEnv("DB_MIN_CONNS", "5")),
		MigrationPath: getEnv("MIGRATION_PATH", "database/migration"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: cast.ToDuration(getEnv("JWT_EXPIRY", "24h")),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: cast.ToInt(getEnv("SMTP_PORT", "587")),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		OriginURL: os.Getenv("ORIGIN_URL"),

		AllowUnverify:    cast.ToBool(getEnv("ALLOW_UNVERIFY", "true")),
		ActivityCacheTTL: cast.ToDuration(getEnv("ACTIVITY_CACHE_TTL", "30s")),
		OAuthProviders:   loadProviders(),
	}

	if cfg.JWTExpiry <= 0 {
		cfg.JWTExpiry = 24 * time.Hour
	}

	missing := []string{}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// loadProviders collects OAUTH_<NAME>_URL variables, keyed by lower-case name.
func loadProviders() map[string]string {
	providers := map[string]string{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if strings.HasPrefix(key, "OAUTH_") && strings.HasSuffix(key, "_URL") {
			name := strings.TrimSuffix(strings.TrimPrefix(key, "OAUTH_"), "_URL")
			if name != "" {
				providers[strings.ToLower(name)] = value
			}
		}
	}
	return providers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
