package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := loadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, key := range []string{"APP_ADDR", "DB_TIMEOUT", "TOKEN_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"MAX_BODY_BYTES", "LOG_LEVEL", "ENABLE_HSTS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.addr)
	assert.Equal(t, 3*time.Second, cfg.dbTimeout)
	assert.Equal(t, 24*time.Hour, cfg.tokenTTL)
	assert.Equal(t, float64(10), cfg.rateRPS)
	assert.Equal(t, 20, cfg.rateBurst)
	assert.Equal(t, int64(1<<20), cfg.maxBodyBytes)
	assert.Equal(t, slog.LevelInfo, cfg.logLevel)
	assert.False(t, cfg.enableHSTS)
	assert.Empty(t, cfg.corsOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_TIMEOUT", "750ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://library.example, ,http://localhost:3000")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.dbTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.logLevel)
	assert.True(t, cfg.enableHSTS)
	assert.Equal(t, []string{"https://library.example", "http://localhost:3000"}, cfg.corsOrigins)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	for key, bad := range map[string]string{
		"DB_TIMEOUT":       "soon",
		"RATE_LIMIT_BURST": "lots",
		"LOG_LEVEL":        "chatty",
		"ENABLE_HSTS":      "maybe",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, bad)
			_, err := loadConfig()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/library", redactDSN("postgres://lib:secret@db:5432/library"))
	assert.Equal(t, "host=db", redactDSN("host=db"))
}
