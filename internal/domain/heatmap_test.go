package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatWeight(t *testing.T) {
	assert.InDelta(t, 0.42, HeatWeight(4.2), 1e-12)
	assert.InDelta(t, 0.0, HeatWeight(0), 1e-12)
}

func TestProjectHeatmap(t *testing.T) {
	points := ProjectHeatmap(threeEvents())

	require.Len(t, points, 3)
	assert.Equal(t, 38.8, points[0].Lat)
	assert.Equal(t, -122.8, points[0].Lng)
	assert.InDelta(t, 0.21, points[0].Weight, 1e-12)
	assert.InDelta(t, 0.6, points[2].Weight, 1e-12)
}

func TestDefaultHeatLayerOptions(t *testing.T) {
	opts := DefaultHeatLayerOptions()
	assert.Equal(t, 25, opts.Radius)
	assert.Equal(t, 15, opts.Blur)

	stops := make([]float64, 0, len(opts.Gradient))
	for _, g := range opts.Gradient {
		stops = append(stops, g.Stop)
	}
	assert.Equal(t, []float64{0.2, 0.4, 0.6, 0.8}, stops)
}
