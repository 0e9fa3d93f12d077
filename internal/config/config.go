package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server config
	Server ServerConfig

	// CSRF and session cookie config
	Security SecurityConfig

	// Gemini, speech and wiki config
	APIs APIConfig

	// session persistence
	Store StoreConfig

	// upload limits
	Limits LimitsConfig

	// itinerary placeholders
	Itinerary ItineraryConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    slog.Level
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret           string
	SessionCookieName    string
	SessionDuration      time.Duration
	SessionEncryptionKey string // optional; seals stored session state
	SecureCookies        bool   // true in production
}

// APIConfig holds external API configuration.
type APIConfig struct {
	GeminiAPIKey       string
	GeminiModel        string
	TTSAPIKey          string
	WikipediaBaseURL   string
	WikipediaUserAgent string
}

// Session store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// StoreConfig selects where session state lives.
type StoreConfig struct {
	Backend     string
	DatabaseURL string
	RedisURL    string
}

// LimitsConfig holds request size limits.
type LimitsConfig struct {
	MaxUploadBytes int64
}

// ItineraryConfig holds values shown in generated itineraries.
type ItineraryConfig struct {
	CheapestFlightDays string
}

// Load reads configuration from the environment and an optional .env file,
// reporting every invalid setting at once.
func Load() (*Config, error) {
	// Load .env file if it exists; production sets real env vars
	_ = godotenv.Load()

	cfg := &Config{}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	// Load server configuration
	cfg.Server = ServerConfig{
		Port:        getEnvOrDefault("SERVER_PORT", "8080"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		LogLevel:    level,
	}

	// Load security configuration
	sessionHours, err := strconv.Atoi(getEnvOrDefault("SESSION_DURATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_DURATION_HOURS: %w", err)
	}

	cfg.Security = SecurityConfig{
		CSRFSecret:           os.Getenv("CSRF_SECRET"),
		SessionCookieName:    getEnvOrDefault("SESSION_COOKIE_NAME", "landmark_guide_session"),
		SessionDuration:      time.Duration(sessionHours) * time.Hour,
		SessionEncryptionKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
		SecureCookies:        cfg.Server.Environment == "production",
	}

	// Load API configuration
	geminiKey := os.Getenv("GEMINI_API_KEY")
	cfg.APIs = APIConfig{
		GeminiAPIKey:       geminiKey,
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		TTSAPIKey:          getEnvOrDefault("TTS_API_KEY", geminiKey),
		WikipediaBaseURL:   getEnvOrDefault("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org"),
		WikipediaUserAgent: getEnvOrDefault("WIKIPEDIA_USER_AGENT", "landmark-guide/1.0 (https://github.com/rahul4469/landmark-guide)"),
	}

	// Load store configuration
	cfg.Store = StoreConfig{
		Backend:     strings.ToLower(getEnvOrDefault("SESSION_STORE", StoreMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	// Load limits configuration
	maxUploadMB, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_MB", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}
	cfg.Limits = LimitsConfig{
		MaxUploadBytes: maxUploadMB << 20,
	}

	cfg.Itinerary = ItineraryConfig{
		CheapestFlightDays: getEnvOrDefault("CHEAPEST_FLIGHT_DAYS", "Tuesday or Wednesday"),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate collects every configuration problem so startup reports them
// all at once.
func (c *Config) validate() error {
	var errs []error

	// CSRF secret must be set and sufficiently long
	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	if c.Security.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION_HOURS must be positive"))
	}

	// Gemini key drives identification and translation
	if c.APIs.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when SESSION_STORE=postgres"))
		}
	case StoreRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be one of: memory, postgres, redis (got: %s)", c.Store.Backend))
	}

	if c.Limits.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}

	// Validate environment is a known value
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	// Combine all errors
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
