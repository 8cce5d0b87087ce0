package geo

import (
	"math"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points using the
// haversine formula on a spherical Earth.
func DistanceKm(a, b Coordinates) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius reports whether point is at most radiusKm from origin.
// The radius is an inclusive upper bound.
func WithinRadius(origin, point Coordinates, radiusKm float64) bool {
	return DistanceKm(origin, point) <= radiusKm
}

// FilterByDistance returns the listings within radiusKm of origin,
// preserving input order. Listings missing either coordinate cannot be
// judged in-range and are excluded.
func FilterByDistance(listings []domain.Listing, origin Coordinates, radiusKm float64) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.HasCoordinates() {
			continue
		}
		point := Coordinates{Latitude: *l.Latitude, Longitude: *l.Longitude}
		if WithinRadius(origin, point, radiusKm) {
			out = append(out, l)
		}
	}
	return out
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
