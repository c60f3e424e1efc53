package utils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/02loveslollipop/yakchatja/internal/hours"
	pharm "github.com/02loveslollipop/yakchatja/internal/models"
	"github.com/02loveslollipop/yakchatja/internal/regions"
	"github.com/02loveslollipop/yakchatja/services/watcher/internal/models"
)

// BuildPharmacyRows converts feed records into database-ready rows. Records
// sharing an id collapse into the last one seen; order follows first sight.
func BuildPharmacyRows(region regions.Region, list []pharm.Pharmacy, syncedAt time.Time) ([]models.PharmacyRow, error) {
	rows := make([]models.PharmacyRow, 0, len(list))
	index := make(map[string]int, len(list))
	for _, p := range list {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Name, err)
		}
		row := models.PharmacyRow{
			Sido:     region.Sido,
			Sigungu:  region.Sigungu,
			ID:       p.ID(),
			Name:     p.Name,
			Address:  p.Address,
			Phone:    p.Phone,
			Night:    hours.IsNightPharmacy(p),
			Sunday:   hours.IsSundayOpen(p),
			Holiday:  hours.IsHolidayOpen(p),
			Raw:      raw,
			SyncedAt: syncedAt,
		}
		if c, ok := p.Coordinate(); ok {
			lat, lon := c.Lat, c.Lng
			row.Lat, row.Lon = &lat, &lon
		}

		if i, seen := index[row.ID]; seen {
			rows[i] = row
			continue
		}
		index[row.ID] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

// PharmacyIDs extracts identifiers from rows.
func PharmacyIDs(rows []models.PharmacyRow) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// CountFlags tallies the night, sunday and holiday rows for logging.
func CountFlags(rows []models.PharmacyRow) (night, sunday, holiday int) {
	for _, row := range rows {
		if row.Night {
			night++
		}
		if row.Sunday {
			sunday++
		}
		if row.Holiday {
			holiday++
		}
	}
	return night, sunday, holiday
}

// FloatPtrString prints pointer values for logging.
func FloatPtrString(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.6f", *v)
}
