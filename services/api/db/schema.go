package db

import "context"

// SchemaSQL creates the tables shared by the API and the watcher.
const SchemaSQL = `
CREATE SCHEMA IF NOT EXISTS yakguk;

CREATE TABLE IF NOT EXISTS yakguk.pharmacies (
	sido TEXT NOT NULL,
	sigungu TEXT NOT NULL DEFAULT '',
	id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	night BOOLEAN NOT NULL DEFAULT false,
	sunday BOOLEAN NOT NULL DEFAULT false,
	holiday BOOLEAN NOT NULL DEFAULT false,
	raw JSONB NOT NULL,
	synced_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sido, sigungu, id)
);

CREATE INDEX IF NOT EXISTS idx_pharmacies_id ON yakguk.pharmacies(id);

CREATE TABLE IF NOT EXISTS yakguk.favorites (
	client_id UUID NOT NULL,
	pharmacy_id TEXT NOT NULL,
	snapshot JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (client_id, pharmacy_id)
);
`

// EnsureSchema creates missing tables. It is safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, SchemaSQL)
	return err
}
