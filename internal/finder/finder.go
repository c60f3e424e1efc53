package finder

import (
	"sort"
	"time"

	"github.com/02loveslollipop/yakchatja/internal/geo"
	"github.com/02loveslollipop/yakchatja/internal/hours"
	"github.com/02loveslollipop/yakchatja/internal/models"
)

// Filter selects pharmacies by derived hours state. Zero value keeps everything.
type Filter struct {
	OpenNow bool
	Night   bool
	Sunday  bool
	Holiday bool
}

// Annotate derives the hours view of every record at now and, when ref is
// non-nil, the distance to ref for records with a usable location.
func Annotate(list []models.Pharmacy, now time.Time, ref *geo.Coordinate) []models.Annotated {
	out := make([]models.Annotated, 0, len(list))
	for _, p := range list {
		item := models.Annotated{
			ID:       p.ID(),
			Pharmacy: p,
			Hours:    hours.Derive(p, now),
		}
		if ref != nil {
			if c, ok := p.Coordinate(); ok {
				km := geo.DistanceKm(*ref, c)
				item.DistanceKm = &km
				item.Distance = geo.FormatDistance(km)
			}
		}
		out = append(out, item)
	}
	return out
}

// Apply returns the items matching every enabled criterion. The input slice is
// left untouched.
func Apply(list []models.Annotated, f Filter) []models.Annotated {
	out := make([]models.Annotated, 0, len(list))
	for _, item := range list {
		if f.OpenNow && !item.Hours.OpenNow {
			continue
		}
		if f.Night && !item.Hours.Night {
			continue
		}
		if f.Sunday && !item.Hours.Sunday {
			continue
		}
		if f.Holiday && !item.Hours.Holiday {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortByDistance orders items by ascending distance in place. Items without a
// distance go after all ranked ones.
func SortByDistance(list []models.Annotated) {
	sort.SliceStable(list, func(i, j int) bool {
		di, dj := list[i].DistanceKm, list[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}

// Search annotates, filters and, when ref is set, ranks list by distance.
func Search(list []models.Pharmacy, now time.Time, f Filter, ref *geo.Coordinate) []models.Annotated {
	result := Apply(Annotate(list, now, ref), f)
	if ref != nil {
		SortByDistance(result)
	}
	return result
}
