package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeDev      = "dev"

	defaultPort            = "8080"
	defaultAuthMode        = AuthModeFirebase
	defaultDevJWTSecret    = "change-me-dev-jwt-secret"
	defaultDevJWTTTL       = "24h"
	defaultShutdownTimeout = "10s"
	defaultConnMaxLifetime = "1h"
	defaultMaxOpenConns    = 20
	defaultMaxIdleConns    = 5
	defaultRateLimitRPM    = 60

	defaultNotificationRetention = "2160h"
	defaultCleanupInterval       = "24h"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	AuthMode                string
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	DevJWTSecret            string
	DevJWTTTL               time.Duration

	CORSAllowedOrigins []string
	RedisURL           string
	RateLimitRPM       int
	ShutdownTimeout    time.Duration

	NotificationRetention time.Duration
	CleanupInterval       time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", "info"))

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(getEnv("AUTH_MODE", defaultAuthMode)))
	cfg.FirebaseProjectID = strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID"))
	cfg.FirebaseCredentialsFile = strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS_FILE"))
	cfg.DevJWTSecret = strings.TrimSpace(getEnv("DEV_JWT_SECRET", defaultDevJWTSecret))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.MaxOpenConns, err = parseIntEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns, err = parseIntEnv("DB_MAX_IDLE_CONNS", defaultMaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM, err = parseIntEnv("RATE_LIMIT_RPM", defaultRateLimitRPM); err != nil {
		return nil, err
	}
	if cfg.ConnMaxLifetime, err = parseDurationEnv("DB_CONN_MAX_LIFETIME", defaultConnMaxLifetime); err != nil {
		return nil, err
	}
	if cfg.DevJWTTTL, err = parseDurationEnv("DEV_JWT_TTL", defaultDevJWTTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	if cfg.NotificationRetention, err = parseDurationEnv("NOTIFICATION_RETENTION", defaultNotificationRetention); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = parseDurationEnv("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Info().
		Str("env", cfg.AppEnv).
		Str("auth_mode", cfg.AuthMode).
		Bool("redis", cfg.RedisURL != "").
		Msg("config loaded")

	return cfg, nil
}

func (c *Config) IsProduction() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if cfg.MaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}
	if cfg.ConnMaxLifetime <= 0 {
		return fmt.Errorf("DB_CONN_MAX_LIFETIME must be > 0")
	}
	if cfg.DevJWTTTL <= 0 {
		return fmt.Errorf("DEV_JWT_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.NotificationRetention <= 0 || cfg.CleanupInterval <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION and CLEANUP_INTERVAL must be > 0")
	}
	if cfg.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be > 0")
	}

	switch cfg.AuthMode {
	case AuthModeFirebase:
	case AuthModeDev:
		if isProdLike(cfg.AppEnv) {
			return fmt.Errorf("AUTH_MODE=dev is not allowed in prod/release")
		}
		if cfg.DevJWTSecret == "" {
			return fmt.Errorf("DEV_JWT_SECRET must not be empty")
		}
		if isEmptyOrDefault(cfg.DevJWTSecret, defaultDevJWTSecret) {
			log.Warn().Msg("AUTH_MODE=dev is using the default DEV_JWT_SECRET")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: firebase, dev")
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
