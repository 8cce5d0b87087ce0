package geo

import (
	"context"
	"fmt"

	"github.com/nf/geocode"
)

// GoogleGeocoder is the external fallback behind the gazetteer. Requests are
// scoped to a single country region so ambiguous suburb names resolve
// locally.
type GoogleGeocoder struct {
	region string
}

func NewGoogleGeocoder(region string) *GoogleGeocoder {
	return &GoogleGeocoder{region: region}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (*Coordinates, error) {
	req := &geocode.Request{
		Provider: geocode.GOOGLE,
		Region:   g.region,
		Address:  query,
	}

	resp, err := req.Lookup(nil)
	if err != nil {
		return nil, fmt.Errorf("geocode lookup: %w", err)
	}
	if resp.Status != "OK" || resp.GoogleResponse == nil || len(resp.GoogleResponse.Results) == 0 {
		return nil, fmt.Errorf("geocode lookup: status %q", resp.Status)
	}

	loc := resp.GoogleResponse.Results[0].Geometry.Location
	return &Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
