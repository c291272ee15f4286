package render

import (
	"context"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Strategy renders the filtered events for one view mode.
type Strategy interface {
	Mode() domain.ViewMode
	Render(ctx context.Context, events []domain.SeismicEvent, vp domain.Viewport) (Frame, error)
}

// Clusterer groups styled markers for the cluster view.
type Clusterer interface {
	Cluster(markers []domain.Marker, zoom int) []domain.Cluster
}

// Standard draws one unclustered marker per event.
type Standard struct{}

func (Standard) Mode() domain.ViewMode { return domain.ViewStandard }

func (Standard) Render(_ context.Context, events []domain.SeismicEvent, vp domain.Viewport) (Frame, error) {
	return Frame{Markers: styleAll(events, false, vp)}, nil
}

// Cluster draws clustered markers grouped by a Clusterer.
type Cluster struct {
	Clusterer Clusterer
}

func (Cluster) Mode() domain.ViewMode { return domain.ViewCluster }

func (c Cluster) Render(_ context.Context, events []domain.SeismicEvent, vp domain.Viewport) (Frame, error) {
	markers := styleAll(events, true, vp)
	return Frame{Clusters: c.Clusterer.Cluster(markers, vp.Zoom)}, nil
}

// Heatmap projects every event to a weighted density point.
type Heatmap struct{}

func (Heatmap) Mode() domain.ViewMode { return domain.ViewHeatmap }

func (Heatmap) Render(_ context.Context, events []domain.SeismicEvent, _ domain.Viewport) (Frame, error) {
	return Frame{Heat: &HeatLayer{
		Points:  domain.ProjectHeatmap(events),
		Options: domain.DefaultHeatLayerOptions(),
	}}, nil
}

// DefaultStrategies returns one strategy for each view mode.
func DefaultStrategies(clusterer Clusterer) []Strategy {
	return []Strategy{Standard{}, Cluster{Clusterer: clusterer}, Heatmap{}}
}

func styleAll(events []domain.SeismicEvent, clustered bool, vp domain.Viewport) []domain.Marker {
	markers := make([]domain.Marker, len(events))
	for i := range events {
		markers[i] = domain.StyleMarker(events[i], clustered, vp)
	}
	return markers
}
