package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSRFSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CSRF_SECRET", testCSRFSecret)
	t.Setenv("GEMINI_API_KEY", "gemini-key")
}

func TestLoad_defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.Server.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionDuration)
	assert.False(t, cfg.Security.SecureCookies)
	assert.Equal(t, "gemini-key", cfg.APIs.TTSAPIKey, "speech falls back to the gemini key")
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, int64(10<<20), cfg.Limits.MaxUploadBytes)
	assert.Equal(t, "Tuesday or Wednesday", cfg.Itinerary.CheapestFlightDays)
}

func TestLoad_overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TTS_API_KEY", "tts-key")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MAX_UPLOAD_MB", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Environment)
	assert.True(t, cfg.Security.SecureCookies)
	assert.Equal(t, slog.LevelDebug, cfg.Server.LogLevel)
	assert.Equal(t, "tts-key", cfg.APIs.TTSAPIKey)
	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, int64(4<<20), cfg.Limits.MaxUploadBytes)
}

func TestLoad_reportsEveryProblem(t *testing.T) {
	t.Setenv("CSRF_SECRET", "short")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SESSION_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("APP_ENV", "qa")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "CSRF_SECRET must be at least 32 characters")
	assert.Contains(t, msg, "GEMINI_API_KEY is required")
	assert.Contains(t, msg, "DATABASE_URL is required")
	assert.Contains(t, msg, "APP_ENV must be one of")
}

func TestLoad_badNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_DURATION_HOURS", "a day")

	_, err := Load()
	require.ErrorContains(t, err, "SESSION_DURATION_HOURS")
}

func TestLoad_unknownStore(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_STORE", "etcd")

	_, err := Load()
	require.ErrorContains(t, err, "SESSION_STORE must be one of")
}
