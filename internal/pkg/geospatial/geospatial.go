package geospatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aptradar/aptradar/internal/core/domain"
)

const (
	earthRadiusKm = 6371.0

	// metersPerDegree is the planar approximation used to size a map
	// viewport. The longitude span is scaled by cos(center latitude).
	metersPerDegree = 111_000.0

	// Radius clamp for viewport-derived searches.
	MinRadiusMeters = 500
	MaxRadiusMeters = 30_000
)

// ParseLatLng parses a "lat,lng" pair into a GeoPoint.
func ParseLatLng(s string) (domain.GeoPoint, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("expected \"lat,lng\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	return domain.GeoPoint{Lat: lat, Lng: lng}, nil
}

// BoundsToCenterRadius converts a map viewport (southwest and northeast
// corners as "lat,lng" strings) into a center point plus a search radius.
//
// The midpoint is the arithmetic mean of the corners. Spans are
// approximated planar (111,000 m per degree, longitude scaled by the
// cosine of the center latitude), the radius is half the Euclidean
// diagonal, truncated to whole meters and clamped to
// [MinRadiusMeters, MaxRadiusMeters]. Good enough for a display radius,
// not geodesically exact.
func BoundsToCenterRadius(sw, ne string) (domain.GeoPoint, int, error) {
	swPt, err := ParseLatLng(sw)
	if err != nil {
		return domain.GeoPoint{}, 0, fmt.Errorf("sw: %w", err)
	}
	nePt, err := ParseLatLng(ne)
	if err != nil {
		return domain.GeoPoint{}, 0, fmt.Errorf("ne: %w", err)
	}

	center := domain.GeoPoint{
		Lat: (swPt.Lat + nePt.Lat) / 2.0,
		Lng: (swPt.Lng + nePt.Lng) / 2.0,
	}

	latMeters := (nePt.Lat - swPt.Lat) * metersPerDegree
	lngMeters := (nePt.Lng - swPt.Lng) * metersPerDegree * math.Cos(toRad(center.Lat))
	diag := math.Sqrt(latMeters*latMeters + lngMeters*lngMeters)

	radius := int(diag / 2)
	if radius < MinRadiusMeters {
		radius = MinRadiusMeters
	}
	if radius > MaxRadiusMeters {
		radius = MaxRadiusMeters
	}

	return center, radius, nil
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
