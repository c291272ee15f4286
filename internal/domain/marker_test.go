package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIcon(t *testing.T) {
	tests := []struct {
		name      string
		mag       float64
		clustered bool
		size      int
		color     string
	}{
		{"major", 6.5, false, 40, "red-600"},
		{"major clustered", 6.5, true, 48, "red-600"},
		{"strong", 5.0, false, 32, "red-500"},
		{"strong clustered", 5.9, true, 40, "red-500"},
		{"light", 4.2, false, 24, "orange-500"},
		{"minor clustered", 3.0, true, 32, "orange-400"},
		{"micro", 1.1, false, 20, "emerald-400"},
		{"micro clustered", -0.5, true, 24, "emerald-400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icon := ComputeIcon(tt.mag, tt.clustered)
			assert.Equal(t, tt.size, icon.SizePx)
			assert.Equal(t, tt.color, icon.ColorKey)
			assert.Equal(t, tt.clustered, icon.Ring)
		})
	}
}

func TestComputeIcon_ClusteredDelta(t *testing.T) {
	deltas := map[float64]int{6.1: 8, 5.1: 8, 3.1: 8, 1.0: 4}
	for mag, delta := range deltas {
		assert.Equal(t, delta, ComputeIcon(mag, true).SizePx-ComputeIcon(mag, false).SizePx, "mag %.1f", mag)
	}
}

func TestComputePopupAnchor(t *testing.T) {
	// centre 10, north 20: threshold is 13.
	assert.Equal(t, PopupTop, ComputePopupAnchor(13, 10, 20), "equality resolves to top")
	assert.Equal(t, PopupBottom, ComputePopupAnchor(13.0001, 10, 20))
	assert.Equal(t, PopupTop, ComputePopupAnchor(12.9, 10, 20))
	assert.Equal(t, PopupTop, ComputePopupAnchor(-40, 10, 20))
}

func TestComputeCircleOverlay(t *testing.T) {
	assert.Nil(t, ComputeCircleOverlay(4.9))

	c := ComputeCircleOverlay(5.2)
	require.NotNil(t, c)
	assert.InDelta(t, 260000, c.RadiusMeters, 1e-6)
	assert.Equal(t, 0.1, c.FillOpacity)
	assert.Equal(t, 0.6, c.StrokeOpacity)
	assert.Equal(t, "orange", c.ColorKey)

	major := ComputeCircleOverlay(7.3)
	require.NotNil(t, major)
	assert.Equal(t, "red", major.ColorKey)
	assert.Equal(t, c.FillOpacity, major.FillOpacity, "opacity does not scale with magnitude")
}

func TestStyleMarker(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	event := SeismicEvent{
		ID:          "us7000abcd",
		Magnitude:   6.1,
		Coordinates: Coordinates{Lat: 18, Lng: 140, DepthKm: -1.24},
		OccurredAt:  now.Add(-3 * time.Hour),
		Place:       "120 km SE of Pagan, Northern Mariana Islands",
		Title:       "M 6.1 - 120 km SE of Pagan",
		DetailURL:   "https://earthquake.usgs.gov/earthquakes/eventpage/us7000abcd",
	}
	vp := Viewport{Center: LatLng{Lat: 10, Lng: 140}, Zoom: 4, North: 20}

	m := StyleMarker(event, false, vp)

	assert.Equal(t, "6.1", m.Label)
	assert.Equal(t, TierHigh, m.Tier)
	assert.Equal(t, 40, m.Icon.SizePx)
	assert.Equal(t, Point{X: 20, Y: 20}, m.IconAnchor)
	assert.Equal(t, PopupBottom, m.PopupAnchor)
	assert.Equal(t, Point{X: 0, Y: 20}, m.PopupOffset)
	require.NotNil(t, m.Circle)
	assert.Equal(t, "Major", m.Popup.Intensity.Level)
	assert.Equal(t, "1.2 km", m.Popup.Depth)
	assert.Equal(t, "3h ago", m.Popup.Age)

	south := event
	south.Coordinates.Lat = 0
	assert.Equal(t, Point{X: 0, Y: -20}, StyleMarker(south, false, vp).PopupOffset)
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, "42m ago", TimeAgo(now.Add(-42*time.Minute)))
	assert.Equal(t, "23h ago", TimeAgo(now.Add(-23*time.Hour-59*time.Minute)))
	assert.Equal(t, "2d ago", TimeAgo(now.Add(-50*time.Hour)))
}
