package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

// Favorite is a pharmacy snapshot saved by an anonymous client.
type Favorite struct {
	ID        string          `json:"id"`
	Pharmacy  models.Pharmacy `json:"pharmacy"`
	CreatedAt time.Time       `json:"created_at"`
}

const listFavoritesSQL = `
    SELECT pharmacy_id, snapshot, created_at
    FROM yakguk.favorites
    WHERE client_id = $1
    ORDER BY created_at, pharmacy_id
`

// ListFavorites returns a client's favorites in insertion order.
func (s *Store) ListFavorites(ctx context.Context, clientID uuid.UUID) ([]Favorite, error) {
	rows, err := s.pool.Query(ctx, listFavoritesSQL, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		var raw []byte
		if err := rows.Scan(&f.ID, &raw, &f.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &f.Pharmacy); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

const putFavoriteSQL = `
INSERT INTO yakguk.favorites (client_id, pharmacy_id, snapshot, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (client_id, pharmacy_id) DO UPDATE
SET snapshot = EXCLUDED.snapshot`

// PutFavorite saves or refreshes a favorite under the pharmacy's stable id.
func (s *Store) PutFavorite(ctx context.Context, clientID uuid.UUID, p models.Pharmacy) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	id := p.ID()
	if _, err := s.pool.Exec(ctx, putFavoriteSQL, clientID, id, raw); err != nil {
		return "", err
	}
	return id, nil
}

const deleteFavoriteSQL = `DELETE FROM yakguk.favorites WHERE client_id = $1 AND pharmacy_id = $2`

// DeleteFavorite removes a favorite and reports whether it existed.
func (s *Store) DeleteFavorite(ctx context.Context, clientID uuid.UUID, pharmacyID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, deleteFavoriteSQL, clientID, pharmacyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const toggleFavoriteSQL = `
WITH deleted AS (
    DELETE FROM yakguk.favorites
    WHERE client_id = $1 AND pharmacy_id = $2
    RETURNING pharmacy_id
)
INSERT INTO yakguk.favorites (client_id, pharmacy_id, snapshot, created_at)
SELECT $1::uuid, $2::text, $3::jsonb, NOW()
WHERE NOT EXISTS (SELECT 1 FROM deleted)
ON CONFLICT (client_id, pharmacy_id) DO NOTHING
RETURNING pharmacy_id`

// ToggleFavorite removes the pharmacy when it is saved and saves it otherwise.
// It reports whether the pharmacy is a favorite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, clientID uuid.UUID, p models.Pharmacy) (bool, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return false, err
	}

	var id string
	err = s.pool.QueryRow(ctx, toggleFavoriteSQL, clientID, p.ID(), raw).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
