package domain

// HeatPoint is one weighted sample for density rendering.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

// GradientStop maps a normalized weight to a colour.
type GradientStop struct {
	Stop  float64 `json:"stop"`
	Color string  `json:"color"`
}

// HeatLayerOptions configures the density layer.
type HeatLayerOptions struct {
	Radius   int            `json:"radius"`
	Blur     int            `json:"blur"`
	MaxZoom  int            `json:"max_zoom"`
	Gradient []GradientStop `json:"gradient"`
}

// DefaultHeatLayerOptions returns the fixed heat layer configuration.
func DefaultHeatLayerOptions() HeatLayerOptions {
	return HeatLayerOptions{
		Radius:  25,
		Blur:    15,
		MaxZoom: 10,
		Gradient: []GradientStop{
			{Stop: 0.2, Color: "blue"},
			{Stop: 0.4, Color: "lime"},
			{Stop: 0.6, Color: "orange"},
			{Stop: 0.8, Color: "red"},
		},
	}
}

// HeatWeight is the density contribution of a magnitude.
func HeatWeight(mag float64) float64 {
	return mag / 10
}

// ProjectHeatmap converts every event to a weighted point, in order.
func ProjectHeatmap(events []SeismicEvent) []HeatPoint {
	points := make([]HeatPoint, len(events))
	for i, e := range events {
		points[i] = HeatPoint{
			Lat:    e.Coordinates.Lat,
			Lng:    e.Coordinates.Lng,
			Weight: HeatWeight(e.Magnitude),
		}
	}
	return points
}
