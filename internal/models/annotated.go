package models

import "github.com/02loveslollipop/yakchatja/internal/hours"

// Annotated is a pharmacy together with its derived hours view and, when a
// reference point was supplied and the record has a usable location, its distance.
type Annotated struct {
	ID         string     `json:"id"`
	Pharmacy   Pharmacy   `json:"pharmacy"`
	Hours      hours.View `json:"hours"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Distance   string     `json:"distance,omitempty"`
}
