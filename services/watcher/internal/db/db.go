package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/yakchatja/internal/regions"
	apidb "github.com/02loveslollipop/yakchatja/services/api/db"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/models"
)

// EnsureSchema creates the shared tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, apidb.SchemaSQL)
	return err
}

// UpsertPharmacies inserts/updates the rows of a region snapshot.
func UpsertPharmacies(ctx context.Context, pool *pgxpool.Pool, rows []models.PharmacyRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO yakguk.pharmacies (sido, sigungu, id, name, address, phone, lat, lon, night, sunday, holiday, raw, synced_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (sido, sigungu, id) DO UPDATE
SET name = EXCLUDED.name,
    address = EXCLUDED.address,
    phone = EXCLUDED.phone,
    lat = EXCLUDED.lat,
    lon = EXCLUDED.lon,
    night = EXCLUDED.night,
    sunday = EXCLUDED.sunday,
    holiday = EXCLUDED.holiday,
    raw = EXCLUDED.raw,
    synced_at = EXCLUDED.synced_at`

	for _, r := range rows {
		batch.Queue(query, r.Sido, r.Sigungu, r.ID, r.Name, r.Address, r.Phone, r.Lat, r.Lon,
			r.Night, r.Sunday, r.Holiday, string(r.Raw), r.SyncedAt)
	}

	res := pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// DeleteStale removes rows of the region whose id was not seen in this sync.
func DeleteStale(ctx context.Context, pool *pgxpool.Pool, region regions.Region, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}

	tag, err := pool.Exec(ctx, `
DELETE FROM yakguk.pharmacies
WHERE sido = $1 AND sigungu = $2 AND NOT (id = ANY($3))`, region.Sido, region.Sigungu, keep)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
