package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// RegionSnapshot is the last synced pharmacy list of a region.
type RegionSnapshot struct {
	Pharmacies []models.Pharmacy
	SyncedAt   *time.Time
}

const regionPharmaciesSQL = `
    SELECT raw, synced_at
    FROM yakguk.pharmacies
    WHERE sido = $1 AND sigungu = $2
    ORDER BY name, id
`

// RegionPharmacies returns the synced pharmacies of a region. An unsynced
// region yields an empty snapshot.
func (s *Store) RegionPharmacies(ctx context.Context, sido, sigungu string) (RegionSnapshot, error) {
	rows, err := s.pool.Query(ctx, regionPharmaciesSQL, sido, sigungu)
	if err != nil {
		return RegionSnapshot{}, err
	}
	defer rows.Close()

	snap := RegionSnapshot{Pharmacies: make([]models.Pharmacy, 0)}
	for rows.Next() {
		var raw []byte
		var syncedAt time.Time
		if err := rows.Scan(&raw, &syncedAt); err != nil {
			return RegionSnapshot{}, err
		}
		var p models.Pharmacy
		if err := json.Unmarshal(raw, &p); err != nil {
			return RegionSnapshot{}, err
		}
		snap.Pharmacies = append(snap.Pharmacies, p)
		if snap.SyncedAt == nil || syncedAt.Before(*snap.SyncedAt) {
			ts := syncedAt
			snap.SyncedAt = &ts
		}
	}
	return snap, rows.Err()
}

const pharmacyByIDSQL = `
    SELECT raw
    FROM yakguk.pharmacies
    WHERE id = $1
    ORDER BY synced_at DESC
    LIMIT 1
`

// PharmacyByID returns the most recently synced record with the given id, or nil.
func (s *Store) PharmacyByID(ctx context.Context, id string) (*models.Pharmacy, error) {
	var raw []byte
	if err := s.pool.QueryRow(ctx, pharmacyByIDSQL, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var p models.Pharmacy
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
