package domain

import (
	"context"
	"errors"
)

// ErrNoMatch is returned by a Geocoder when the provider found nothing.
var ErrNoMatch = errors.New("geocode: no match")

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // provider confidence, 0.0 to 1.0
}

// LatLng returns the result position.
func (r GeocodingResult) LatLng() LatLng {
	return LatLng{Lat: r.Lat, Lng: r.Lon}
}

// Geocoder resolves free-text place queries to coordinates.
type Geocoder interface {
	// Geocode returns the best match for query, or ErrNoMatch.
	Geocode(ctx context.Context, query string) (GeocodingResult, error)
}
