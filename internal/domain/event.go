package domain

import (
	"math"
	"time"
)

// LatLng is a WGS-84 latitude/longitude pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinates locates an event's hypocentre.
type Coordinates struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	DepthKm float64 `json:"depth_km"`
}

// Position drops the depth component.
func (c Coordinates) Position() LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lng}
}

// SeismicEvent is a single earthquake from the feed snapshot. Values are
// treated as immutable once parsed.
type SeismicEvent struct {
	ID          string      `json:"id"`
	Magnitude   float64     `json:"magnitude"`
	Coordinates Coordinates `json:"coordinates"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Place       string      `json:"place"`
	DetailURL   string      `json:"detail_url,omitempty"`
	Title       string      `json:"title,omitempty"`
}

// Tier returns the event's intensity tier.
func (e SeismicEvent) Tier() IntensityTier {
	return MagnitudeToTier(e.Magnitude)
}

const (
	// SearchZoom is the zoom level used when centring on a search result.
	SearchZoom = 6
	// MinZoom and MaxZoom bound the tile layers.
	MinZoom = 2
	MaxZoom = 18

	// maxMercatorLat is the latitude where Web Mercator tiles end.
	maxMercatorLat = 85.0511
)

// HomeCenter is the initial and reset map centre.
var HomeCenter = LatLng{Lat: 20, Lng: 0}

// Viewport describes the visible map area the client is rendering into.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom"`
	North  float64 `json:"north"`
}

// HomeViewport is the viewport shown before any navigation.
func HomeViewport() Viewport {
	return Viewport{Center: HomeCenter, Zoom: MinZoom, North: EstimateNorth(HomeCenter, MinZoom)}
}

// ClampZoom keeps zoom within the tile layer limits.
func ClampZoom(zoom int) int {
	switch {
	case zoom < MinZoom:
		return MinZoom
	case zoom > MaxZoom:
		return MaxZoom
	default:
		return zoom
	}
}

// EstimateNorth approximates the north edge of a viewport when the client
// has not reported its bounds. It assumes the map is two tiles tall.
func EstimateNorth(center LatLng, zoom int) float64 {
	halfSpan := 360 / math.Pow(2, float64(ClampZoom(zoom)))
	return math.Min(center.Lat+halfSpan, maxMercatorLat)
}
