package models

import "time"

// PharmacyRow is one pharmacy of a region snapshot, normalized for the
// yakguk.pharmacies table.
type PharmacyRow struct {
	Sido     string
	Sigungu  string
	ID       string
	Name     string
	Address  string
	Phone    string
	Lat      *float64
	Lon      *float64
	Night    bool
	Sunday   bool
	Holiday  bool
	Raw      []byte
	SyncedAt time.Time
}

// RegionResult summarizes the sync of one region.
type RegionResult struct {
	Region   string
	Fetched  int
	Upserted int
	Removed  int64
	Err      error
}
