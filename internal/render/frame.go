package render

import "github.com/couchcryptid/quake-map-service/internal/domain"

// HeatLayer is the heatmap payload: every point plus the fixed layer options.
type HeatLayer struct {
	Points  []domain.HeatPoint      `json:"points"`
	Options domain.HeatLayerOptions `json:"options"`
}

// Frame is everything the client needs to draw one view. Only the layer
// belonging to Mode is populated.
type Frame struct {
	Mode     domain.ViewMode  `json:"mode"`
	Viewport domain.Viewport  `json:"viewport"`
	Markers  []domain.Marker  `json:"markers,omitempty"`
	Clusters []domain.Cluster `json:"clusters,omitempty"`
	Heat     *HeatLayer       `json:"heat,omitempty"`
	Summary  domain.Summary   `json:"summary"`
}

// Objects reports how many drawable objects the active layer holds.
func (f Frame) Objects() int {
	switch f.Mode {
	case domain.ViewCluster:
		return len(f.Clusters)
	case domain.ViewHeatmap:
		if f.Heat == nil {
			return 0
		}
		return len(f.Heat.Points)
	default:
		return len(f.Markers)
	}
}
