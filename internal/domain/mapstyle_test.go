package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapStyleTable_Defaults(t *testing.T) {
	table, err := NewMapStyleTable(DefaultMapStyles())
	require.NoError(t, err)

	styles := table.List()
	require.Len(t, styles, 4)
	assert.Equal(t, StyleSatellite, styles[0].ID)

	dark, err := table.Lookup(StyleDark)
	require.NoError(t, err)
	assert.Contains(t, dark.TileURLTemplate, "dark_all")
}

func TestNewMapStyleTable_UnknownKeyFailsFast(t *testing.T) {
	styles := DefaultMapStyles()
	styles["watercolor"] = MapStyle{TileURLTemplate: "https://example.test/{z}/{x}/{y}.png"}

	_, err := NewMapStyleTable(styles)
	require.ErrorIs(t, err, ErrUnknownMapStyle)
}

func TestNewMapStyleTable_MissingKey(t *testing.T) {
	styles := DefaultMapStyles()
	delete(styles, StyleTerrain)

	_, err := NewMapStyleTable(styles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terrain")
}

func TestNewMapStyleTable_EmptyTemplate(t *testing.T) {
	styles := DefaultMapStyles()
	styles[StyleLight] = MapStyle{}

	_, err := NewMapStyleTable(styles)
	require.Error(t, err)
}

func TestParseViewMode(t *testing.T) {
	m, err := ParseViewMode("Heatmap")
	require.NoError(t, err)
	assert.Equal(t, ViewHeatmap, m)

	_, err = ParseViewMode("3d")
	require.ErrorIs(t, err, ErrUnknownViewMode)
}

func TestEstimateNorth(t *testing.T) {
	assert.InDelta(t, 85.0511, EstimateNorth(HomeCenter, MinZoom), 1e-9)
	assert.InDelta(t, 45+360.0/1024, EstimateNorth(LatLng{Lat: 45}, 10), 1e-9)
	assert.Equal(t, MinZoom, ClampZoom(0))
	assert.Equal(t, MaxZoom, ClampZoom(25))
}
