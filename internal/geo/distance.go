package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceKm computes the great-circle distance between two points in kilometers.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// FormatDistance renders whole meters below one kilometer and kilometers with
// one decimal otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}

// ParseCoordinate parses latitude/longitude strings as delivered by the
// upstream feed. It reports false for missing, non-numeric or out-of-range values.
func ParseCoordinate(lat, lng string) (Coordinate, bool) {
	la, ok := parseDegrees(lat, 90)
	if !ok {
		return Coordinate{}, false
	}
	lo, ok := parseDegrees(lng, 180)
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{Lat: la, Lng: lo}, true
}

func parseDegrees(val string, limit float64) (float64, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if math.Abs(f) > limit {
		return 0, false
	}
	return f, true
}
