// Package usgs fetches and decodes USGS GeoJSON summary feeds.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Client fetches a USGS summary feed over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchEvents downloads the feed and returns every usable event in feed order.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.SeismicEvent, error) {
	result, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if result.Skipped > 0 {
		c.logger.Debug("skipped unusable feed features", "skipped", result.Skipped)
	}
	return result.Events, nil
}

// Fetch downloads and decodes the feed, keeping its title and the number
// of skipped features.
func (c *Client) Fetch(ctx context.Context) (DecodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return DecodeResult{}, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}
	return Decode(resp.Body)
}

// DecodeResult is the outcome of decoding a feed document.
type DecodeResult struct {
	Title   string
	Events  []domain.SeismicEvent
	Skipped int
}

// Decode parses a GeoJSON FeatureCollection. Features without a magnitude
// or without a longitude/latitude pair are skipped; a missing depth is 0.
func Decode(r io.Reader) (DecodeResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("read feed: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("decode feed: %w", err)
	}

	// orb points are two-dimensional, so depth and the raw coordinate
	// count come from the positions themselves.
	var pos positions
	if err := json.Unmarshal(data, &pos); err != nil {
		return DecodeResult{}, fmt.Errorf("decode feed positions: %w", err)
	}
	if len(pos.Features) != len(fc.Features) {
		return DecodeResult{}, fmt.Errorf("decode feed: %d features but %d positions", len(fc.Features), len(pos.Features))
	}

	out := DecodeResult{
		Title:  feedTitle(fc),
		Events: make([]domain.SeismicEvent, 0, len(fc.Features)),
	}
	for i, f := range fc.Features {
		ev, ok := toEvent(f, pos.Features[i].Geometry.Coordinates)
		if !ok {
			out.Skipped++
			continue
		}
		out.Events = append(out.Events, ev)
	}
	return out, nil
}

type positions struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lng, lat, depth]
		} `json:"geometry"`
	} `json:"features"`
}

// feedTitle reads metadata.title, a USGS extension member.
func feedTitle(fc *geojson.FeatureCollection) string {
	meta, ok := fc.ExtraMembers["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	title, _ := meta["title"].(string)
	return title
}

func toEvent(f *geojson.Feature, coords []float64) (domain.SeismicEvent, bool) {
	if f == nil {
		return domain.SeismicEvent{}, false
	}
	mag, ok := f.Properties["mag"].(float64)
	point, isPoint := f.Geometry.(orb.Point)
	if !ok || !isPoint || len(coords) < 2 {
		return domain.SeismicEvent{}, false
	}

	c := domain.Coordinates{Lng: point.Lon(), Lat: point.Lat()}
	if len(coords) > 2 {
		c.DepthKm = coords[2]
	}
	id, _ := f.ID.(string)
	ms, _ := f.Properties["time"].(float64) // epoch milliseconds
	return domain.SeismicEvent{
		ID:          id,
		Magnitude:   mag,
		Coordinates: c,
		OccurredAt:  time.UnixMilli(int64(ms)).UTC(),
		Place:       stringProp(f.Properties, "place"),
		DetailURL:   stringProp(f.Properties, "url"),
		Title:       stringProp(f.Properties, "title"),
	}, true
}

func stringProp(p geojson.Properties, key string) string {
	s, _ := p[key].(string)
	return s
}
