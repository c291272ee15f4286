// Package session owns the one mutable state container of the service:
// filter criteria, view mode, map style and viewport, plus the current
// feed snapshot. Every change is an Action reduced into a new State value.
package session

import (
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// State is an immutable snapshot of the user-facing session.
type State struct {
	Criteria domain.FilterCriteria `json:"criteria"`
	ViewMode domain.ViewMode       `json:"view_mode"`
	MapStyle domain.MapStyleID     `json:"map_style"`
	Viewport domain.Viewport       `json:"viewport"`
	Version  uint64                `json:"version"`
}

// InitialState is the state before any user action.
func InitialState(mode domain.ViewMode, style domain.MapStyleID) State {
	return State{
		Criteria: domain.DefaultFilterCriteria(),
		ViewMode: mode,
		MapStyle: style,
		Viewport: domain.HomeViewport(),
	}
}

// FeedStatus reports whether a feed snapshot has arrived.
type FeedStatus string

const (
	FeedLoading FeedStatus = "loading"
	FeedReady   FeedStatus = "ready"
)

// Feed is the current event snapshot. It is replaced wholesale.
type Feed struct {
	Status    FeedStatus            `json:"status"`
	Events    []domain.SeismicEvent `json:"-"`
	Count     int                   `json:"count"`
	FetchedAt time.Time             `json:"fetched_at,omitzero"`
}
