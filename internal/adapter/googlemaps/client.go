// Package googlemaps implements domain.Geocoder with the Google Maps
// Geocoding API.
package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"googlemaps.github.io/maps"
)

const provider = "google"

// Client implements domain.Geocoder using googlemaps.github.io/maps.
type Client struct {
	maps    *maps.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option customizes the underlying maps client.
type Option = maps.ClientOption

// WithBaseURL points the client at an alternate API host.
func WithBaseURL(u string) Option {
	return maps.WithBaseURL(u)
}

// NewClient creates a Google geocoding client for apiKey.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) (*Client, error) {
	all := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}, opts...)

	mc, err := maps.NewClient(all...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Client{maps: mc, metrics: metrics, logger: logger}, nil
}

// Geocode forward-geocodes query and returns the first result.
func (c *Client) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	start := time.Now()
	result, err := c.geocode(ctx, query)
	c.metrics.GeocodeAPIDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "success").Inc()
	case errors.Is(err, domain.ErrNoMatch):
		c.metrics.GeocodeRequests.WithLabelValues(provider, "empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues(provider, "error").Inc()
		c.logger.Warn("google geocode failed", "query", query, "error", err)
	}
	return result, err
}

func (c *Client) geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("google geocode: %w", err)
	}
	if len(results) == 0 {
		return domain.GeocodingResult{}, domain.ErrNoMatch
	}

	r := results[0]
	name := r.FormattedAddress
	if len(r.AddressComponents) > 0 {
		name = r.AddressComponents[0].LongName
	}
	confidence := 1.0
	if r.PartialMatch {
		confidence = 0.5
	}
	return domain.GeocodingResult{
		Lat:              r.Geometry.Location.Lat,
		Lon:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		PlaceName:        name,
		Confidence:       confidence,
	}, nil
}
