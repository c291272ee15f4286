package session

import (
	"fmt"

	"github.com/couchcryptid/quake-map-service/internal/domain"
)

// Action is a user intent applied by the reducer.
type Action interface {
	apply(State) (State, error)
}

// Reduce applies a to s. An invalid action returns s unchanged and an error.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	next.Version = s.Version + 1
	return next, nil
}

// SetTiers replaces the enabled intensity tiers.
type SetTiers struct{ Tiers domain.TierSet }

func (a SetTiers) apply(s State) (State, error) {
	if a.Tiers&^domain.AllTierSet != 0 {
		return s, fmt.Errorf("%w: tier set %08b", domain.ErrUnknownTier, uint8(a.Tiers))
	}
	s.Criteria.IntensityTiers = a.Tiers
	return s, nil
}

// ToggleTier flips one tier in the filter.
type ToggleTier struct{ Tier domain.IntensityTier }

func (a ToggleTier) apply(s State) (State, error) {
	if !a.Tier.Valid() {
		return s, fmt.Errorf("%w: %d", domain.ErrUnknownTier, int(a.Tier))
	}
	s.Criteria.IntensityTiers = s.Criteria.IntensityTiers.Toggle(a.Tier)
	return s, nil
}

// SetViewMode switches the active renderer. Filters are untouched.
type SetViewMode struct{ Mode domain.ViewMode }

func (a SetViewMode) apply(s State) (State, error) {
	if !a.Mode.Valid() {
		return s, fmt.Errorf("%w: %q", domain.ErrUnknownViewMode, a.Mode)
	}
	s.ViewMode = a.Mode
	return s, nil
}

// SetMapStyle selects a tile style. Data is untouched.
type SetMapStyle struct{ Style domain.MapStyleID }

func (a SetMapStyle) apply(s State) (State, error) {
	id, err := domain.ParseMapStyleID(string(a.Style))
	if err != nil {
		return s, err
	}
	s.MapStyle = id
	return s, nil
}

// SetViewport records where the client is looking. A zero North is
// replaced by an estimate from the centre and zoom.
type SetViewport struct{ Viewport domain.Viewport }

func (a SetViewport) apply(s State) (State, error) {
	s.Viewport = normalizeViewport(a.Viewport)
	return s, nil
}

// CenterOn pans and zooms to a position, as a search result does.
type CenterOn struct {
	Position domain.LatLng
	Zoom     int
}

func (a CenterOn) apply(s State) (State, error) {
	s.Viewport = normalizeViewport(domain.Viewport{Center: a.Position, Zoom: a.Zoom})
	return s, nil
}

// ResetViewport returns to the home view.
type ResetViewport struct{}

func (ResetViewport) apply(s State) (State, error) {
	s.Viewport = domain.HomeViewport()
	return s, nil
}

func normalizeViewport(vp domain.Viewport) domain.Viewport {
	vp.Zoom = domain.ClampZoom(vp.Zoom)
	if vp.North == 0 || vp.North < vp.Center.Lat {
		vp.North = domain.EstimateNorth(vp.Center, vp.Zoom)
	}
	return vp
}
