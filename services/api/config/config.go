package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/yakchatja/internal/datago"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	DatabaseURL  string
	DataAPIKey   string
	DataAPIURL   string
	RedisURL     string
	CacheTTL     time.Duration
	Location     *time.Location
	Port         int
	BearerToken  string
	DefaultRows  int
	MaxRows      int
	RegionRows   int
	UpstreamWait time.Duration
	Env          string
	LogLevel     string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		DataAPIURL:   datago.DefaultBaseURL,
		CacheTTL:     datago.DefaultCacheTTL,
		Port:         8080,
		DefaultRows:  datago.DefaultNumOfRows,
		MaxRows:      500,
		RegionRows:   300,
		UpstreamWait: 15 * time.Second,
		Env:          "production",
		LogLevel:     "info",
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.DataAPIKey = strings.TrimSpace(os.Getenv("DATA_API_KEY"))
	if cfg.DataAPIKey == "" {
		return cfg, errors.New("DATA_API_KEY is required")
	}

	if url := strings.TrimSpace(os.Getenv("DATA_API_BASE_URL")); url != "" {
		cfg.DataAPIURL = url
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	if v := strings.TrimSpace(os.Getenv("CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return cfg, fmt.Errorf("invalid CACHE_TTL: %s", v)
		}
		cfg.CacheTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("UPSTREAM_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %s", v)
		}
		cfg.UpstreamWait = d
	}

	tz := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if tz == "" {
		tz = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	if rowsStr := os.Getenv("API_DEFAULT_ROWS"); rowsStr != "" {
		if rows, err := strconv.Atoi(rowsStr); err == nil && rows > 0 {
			cfg.DefaultRows = rows
		} else {
			return cfg, fmt.Errorf("invalid API_DEFAULT_ROWS: %s", rowsStr)
		}
	}

	if maxStr := os.Getenv("API_MAX_ROWS"); maxStr != "" {
		if limit, err := strconv.Atoi(maxStr); err == nil && limit > 0 {
			cfg.MaxRows = limit
		} else {
			return cfg, fmt.Errorf("invalid API_MAX_ROWS: %s", maxStr)
		}
	}
	if cfg.DefaultRows > cfg.MaxRows {
		return cfg, fmt.Errorf("API_DEFAULT_ROWS (%d) exceeds API_MAX_ROWS (%d)", cfg.DefaultRows, cfg.MaxRows)
	}

	if regionStr := os.Getenv("API_REGION_ROWS"); regionStr != "" {
		if rows, err := strconv.Atoi(regionStr); err == nil && rows > 0 {
			cfg.RegionRows = rows
		} else {
			return cfg, fmt.Errorf("invalid API_REGION_ROWS: %s", regionStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	if env := strings.TrimSpace(os.Getenv("APP_ENV")); env != "" {
		cfg.Env = env
	}
	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		cfg.LogLevel = lvl
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
