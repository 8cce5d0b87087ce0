package geo

import (
	"context"
	"log"
	"strings"
)

// Geocoder resolves free-text locations through an external service.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Coordinates, error)
}

// Resolver turns a human-entered location string into coordinates. Known
// localities are answered from the static gazetteer without touching the
// network; everything else makes a single external geocoding call. The
// resolver never fails a caller: an unresolvable location is simply nil.
type Resolver struct {
	geocoder Geocoder
	logger   *log.Logger
}

func NewResolver(geocoder Geocoder, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve maps locationText to coordinates, or nil when the location cannot
// be resolved. External failures are logged and swallowed; no result is
// cached, since callers resolve at most once per search or creation.
func (r *Resolver) Resolve(ctx context.Context, locationText string) *Coordinates {
	key := strings.ToLower(strings.TrimSpace(locationText))
	if key == "" {
		return nil
	}

	if entry, ok := LookupGazetteer(key); ok {
		return &Coordinates{Latitude: entry.Latitude, Longitude: entry.Longitude}
	}

	if r.geocoder == nil {
		return nil
	}
	coords, err := r.geocoder.Geocode(ctx, key)
	if err != nil {
		r.logger.Printf("WARN: geocode %q failed: %v", key, err)
		return nil
	}
	return coords
}
