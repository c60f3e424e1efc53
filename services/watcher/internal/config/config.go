package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/yakchatja/internal/regions"
)

const (
	defaultPageSize       = 300
	defaultMaxPages       = 20
	defaultRequestTimeout = 30 * time.Second

	// unboundedPages caps the time budget of a region when MaxPages is 0.
	unboundedPages = 50
	regionSlack    = 10 * time.Second
)

// Config holds runtime configuration for the watcher service.
type Config struct {
	DatabaseURL    string
	DataAPIKey     string
	DataAPIURL     string
	Regions        []regions.Region
	PageSize       int
	MaxPages       int
	RequestTimeout time.Duration
	DryRun         bool
	Env            string
	LogLevel       string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		PageSize:       defaultPageSize,
		MaxPages:       defaultMaxPages,
		RequestTimeout: defaultRequestTimeout,
		Env:            "production",
		LogLevel:       "info",
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.DataAPIKey = strings.TrimSpace(os.Getenv("DATA_API_KEY"))
	if cfg.DataAPIKey == "" {
		return cfg, errors.New("DATA_API_KEY is required")
	}
	cfg.DataAPIURL = strings.TrimSpace(os.Getenv("DATA_API_BASE_URL"))

	if v := strings.TrimSpace(os.Getenv("WATCHER_REGIONS")); v != "" {
		cfg.Regions = regions.ParseList(v)
		for _, r := range cfg.Regions {
			if !r.Valid() {
				return cfg, fmt.Errorf("invalid WATCHER_REGIONS: unknown region %q", r.String())
			}
		}
	}
	if len(cfg.Regions) == 0 {
		for _, sido := range regions.Sido {
			cfg.Regions = append(cfg.Regions, regions.Region{Sido: sido})
		}
	}

	if v := strings.TrimSpace(os.Getenv("WATCHER_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid WATCHER_PAGE_SIZE: %q", v)
		}
		cfg.PageSize = n
	}

	if v := strings.TrimSpace(os.Getenv("WATCHER_MAX_PAGES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid WATCHER_MAX_PAGES: %q", v)
		}
		cfg.MaxPages = n
	}

	if v := strings.TrimSpace(os.Getenv("WATCHER_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("invalid WATCHER_REQUEST_TIMEOUT: %q must be positive", v)
		}
		cfg.RequestTimeout = d
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// RegionTimeout is the time allowed to sync one region: one request timeout
// per page it may fetch, plus slack for the database writes.
func (c Config) RegionTimeout() time.Duration {
	pages := c.MaxPages
	if pages <= 0 {
		pages = unboundedPages
	}
	return time.Duration(pages)*c.RequestTimeout + regionSlack
}
