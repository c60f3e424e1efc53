package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/yakchatja")
	t.Setenv("DATA_API_KEY", "key")
	t.Setenv("TIMEZONE", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"PORT", "API_PORT", "REDIS_URL", "CACHE_TTL", "API_DEFAULT_ROWS", "API_MAX_ROWS", "API_BEARER_TOKEN", "APP_ENV"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.DefaultRows)
	assert.Equal(t, 500, cfg.MaxRows)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_RequiresDatabaseAndKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_API_KEY", "key")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/yakchatja")
	t.Setenv("DATA_API_KEY", " ")
	_, err = Load()
	assert.ErrorContains(t, err, "DATA_API_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("API_DEFAULT_ROWS", "50")
	t.Setenv("API_MAX_ROWS", "200")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 50, cfg.DefaultRows)
	assert.Equal(t, 200, cfg.MaxRows)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":             "abc",
		"CACHE_TTL":        "soon",
		"API_DEFAULT_ROWS": "-1",
		"TIMEZONE":         "Mars/Olympus",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_DefaultRowsAboveMax(t *testing.T) {
	setRequired(t)
	t.Setenv("API_DEFAULT_ROWS", "600")
	t.Setenv("API_MAX_ROWS", "500")
	_, err := Load()
	assert.ErrorContains(t, err, "exceeds")
}
