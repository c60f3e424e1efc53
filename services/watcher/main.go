package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/logging"
	"github.com/02loveslollipop/yakchatja/internal/regions"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/config"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/db"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/models"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("watcher failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init("watcher", cfg.Env, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := datago.New(cfg.DataAPIKey, &http.Client{Timeout: cfg.RequestTimeout})
	if cfg.DataAPIURL != "" {
		client.BaseURL = cfg.DataAPIURL
	}
	syncedAt := time.Now().UTC().Truncate(time.Second)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !cfg.DryRun {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}
	}

	log.Info().Int("regions", len(cfg.Regions)).Dur("region_timeout", cfg.RegionTimeout()).Msg("sync starting")

	failed := 0
	for _, region := range cfg.Regions {
		regionCtx, cancelRegion := context.WithTimeout(ctx, cfg.RegionTimeout())
		res := syncRegion(regionCtx, cfg, client, pool, region, syncedAt)
		cancelRegion()
		if res.Err != nil {
			failed++
			log.Error().Err(res.Err).Str("region", res.Region).Msg("region sync failed")
			continue
		}
		log.Info().
			Str("region", res.Region).
			Int("fetched", res.Fetched).
			Int("upserted", res.Upserted).
			Int64("removed", res.Removed).
			Bool("dry_run", cfg.DryRun).
			Msg("region synced")
	}

	if failed == len(cfg.Regions) {
		return fmt.Errorf("all %d regions failed", failed)
	}
	if failed > 0 {
		log.Warn().Int("failed", failed).Int("regions", len(cfg.Regions)).Msg("sync finished with failures")
	}
	return nil
}

func syncRegion(ctx context.Context, cfg config.Config, client *datago.Client, pool *pgxpool.Pool, region regions.Region, syncedAt time.Time) models.RegionResult {
	res := models.RegionResult{Region: region.String()}

	list, err := client.FetchAll(ctx, datago.Query{
		Sido:      region.Sido,
		Sigungu:   region.Sigungu,
		NumOfRows: cfg.PageSize,
	}, cfg.MaxPages)
	if err != nil {
		res.Err = err
		return res
	}
	res.Fetched = len(list)

	rows, err := utils.BuildPharmacyRows(region, list, syncedAt)
	if err != nil {
		res.Err = err
		return res
	}

	if len(rows) == 0 {
		log.Warn().Str("region", res.Region).Msg("upstream returned no pharmacies; keeping previous snapshot")
		return res
	}

	if cfg.DryRun {
		night, sunday, holiday := utils.CountFlags(rows)
		log.Info().Str("region", res.Region).Int("rows", len(rows)).
			Int("night", night).Int("sunday", sunday).Int("holiday", holiday).
			Msg("dry-run: skipping upsert")
		for _, row := range rows {
			log.Debug().Str("id", row.ID).Str("name", row.Name).
				Str("lat", utils.FloatPtrString(row.Lat)).Str("lon", utils.FloatPtrString(row.Lon)).
				Msg("dry-run: would upsert")
		}
		return res
	}

	if err := db.UpsertPharmacies(ctx, pool, rows); err != nil {
		res.Err = err
		return res
	}
	res.Upserted = len(rows)

	removed, err := db.DeleteStale(ctx, pool, region, utils.PharmacyIDs(rows))
	if err != nil {
		res.Err = err
		return res
	}
	res.Removed = removed
	return res
}
