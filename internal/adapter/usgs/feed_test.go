package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/all_day.geojson")
	require.NoError(t, err)
	return data
}

func TestDecode_Fixture(t *testing.T) {
	res, err := Decode(strings.NewReader(string(fixture(t))))
	require.NoError(t, err)

	assert.Equal(t, "USGS All Earthquakes, Past Day", res.Title)
	assert.Equal(t, 2, res.Skipped, "null magnitude and short coordinates are skipped")
	require.Len(t, res.Events, 3)

	first := res.Events[0]
	assert.Equal(t, "hv74800001", first.ID)
	assert.InDelta(t, 2.1, first.Magnitude, 1e-9)
	assert.InDelta(t, 19.27, first.Coordinates.Lat, 1e-9)
	assert.InDelta(t, -155.41, first.Coordinates.Lng, 1e-9)
	assert.InDelta(t, 31.5, first.Coordinates.DepthKm, 1e-9)
	assert.Equal(t, time.UnixMilli(1760599000000).UTC(), first.OccurredAt)
	assert.Equal(t, "10 km NE of Pahala, Hawaii", first.Place)
	assert.Equal(t, "https://earthquake.usgs.gov/earthquakes/eventpage/hv74800001", first.DetailURL)

	assert.Equal(t, []domain.IntensityTier{domain.TierLow, domain.TierMedium, domain.TierHigh},
		[]domain.IntensityTier{res.Events[0].Tier(), res.Events[1].Tier(), res.Events[2].Tier()})
}

func TestDecode_MissingDepthDefaultsToZero(t *testing.T) {
	res, err := Decode(strings.NewReader(string(fixture(t))))
	require.NoError(t, err)
	assert.Zero(t, res.Events[2].Coordinates.DepthKm)
}

func TestDecode_NullGeometrySkipped(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","id":"x","properties":{"mag":3.2},"geometry":null}]}`
	res, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Equal(t, 1, res.Skipped)
}

func TestDecode_NonPointGeometrySkipped(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"line","properties":{"mag":3.2},
		 "geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
		{"type":"Feature","id":"pt","properties":{"mag":5.1,"place":null},
		 "geometry":{"type":"Point","coordinates":[10,20,7.5]}}]}`
	res, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "pt", res.Events[0].ID)
	assert.InDelta(t, 7.5, res.Events[0].Coordinates.DepthKm, 1e-9)
	assert.Empty(t, res.Events[0].Place)
	assert.Empty(t, res.Title)
}

func TestDecode_NotACollection(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"Feature","properties":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"features": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestClient_FetchEvents(t *testing.T) {
	body := fixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	events, err := c.FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestClient_FetchKeepsTitleAndSkipped(t *testing.T) {
	body := fixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/geo+json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "USGS All Earthquakes, Past Day", res.Title)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Events, 3)
}

func TestClient_FetchEvents_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_FetchEvents_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, discardLogger())
	_, err := c.FetchEvents(context.Background())
	require.Error(t, err)
}
