package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/cache"
	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/logging"
	"github.com/02loveslollipop/yakchatja/services/api/config"
	"github.com/02loveslollipop/yakchatja/services/api/db"
	httpserver "github.com/02loveslollipop/yakchatja/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	logging.Init("api", cfg.Env, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connection error")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	client := datago.New(cfg.DataAPIKey, &http.Client{Timeout: cfg.UpstreamWait})
	if cfg.DataAPIURL != "" {
		client.BaseURL = cfg.DataAPIURL
	}
	client.CacheTTL = cfg.CacheTTL

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, "yakguk:")
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			defer rc.Close()
			client.Cache = rc
			log.Info().Msg("upstream cache enabled")
		}
	}

	srv := httpserver.New(cfg, store, client)
	log.Info().Str("addr", cfg.ListenAddr()).Str("tz", cfg.Location.String()).Msg("REST API listening")

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
