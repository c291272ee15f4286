package domain

import "time"

// DateRange bounds event time. Either end may be zero (open).
type DateRange struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// DepthRange bounds hypocentre depth in kilometres.
type DepthRange struct {
	MinKm float64 `json:"min_km"`
	MaxKm float64 `json:"max_km"`
}

// DefaultDepthRange covers the full range of recorded earthquake depths.
var DefaultDepthRange = DepthRange{MinKm: 0, MaxKm: 700}

// FilterCriteria is the user's current filter selection. It is a value;
// callers replace it wholesale rather than mutating it.
type FilterCriteria struct {
	IntensityTiers TierSet    `json:"intensity_tiers"`
	DateRange      *DateRange `json:"date_range,omitempty"`
	DepthRange     DepthRange `json:"depth_range"`
}

// DefaultFilterCriteria enables every tier.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		IntensityTiers: AllTierSet,
		DepthRange:     DefaultDepthRange,
	}
}

// Matches reports whether an event passes the criteria.
//
// Only the tier set is consulted. DateRange and DepthRange are carried for
// the filter panel but have never been applied to the event set.
func (c FilterCriteria) Matches(e SeismicEvent) bool {
	return c.IntensityTiers.Has(MagnitudeToTier(e.Magnitude))
}

// ApplyFilter returns the events that pass the criteria, preserving order.
// The input slice is not modified.
func ApplyFilter(events []SeismicEvent, c FilterCriteria) []SeismicEvent {
	out := make([]SeismicEvent, 0, len(events))
	if c.IntensityTiers.Empty() {
		return out
	}
	for _, e := range events {
		if c.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// TierCounts tallies events per tier.
type TierCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Total returns the number of counted events.
func (c TierCounts) Total() int {
	return c.Low + c.Medium + c.High
}

// Get returns the count for a single tier.
func (c TierCounts) Get(t IntensityTier) int {
	switch t {
	case TierLow:
		return c.Low
	case TierMedium:
		return c.Medium
	case TierHigh:
		return c.High
	default:
		return 0
	}
}

// CountTiers tallies the events per intensity tier.
func CountTiers(events []SeismicEvent) TierCounts {
	var c TierCounts
	for _, e := range events {
		switch MagnitudeToTier(e.Magnitude) {
		case TierLow:
			c.Low++
		case TierMedium:
			c.Medium++
		case TierHigh:
			c.High++
		}
	}
	return c
}

const (
	notableMagnitude = 4.0
	notableLimit     = 5
)

// NotableEvents returns up to five events at magnitude 4 or above, in feed
// order, for the recent-activity list.
func NotableEvents(events []SeismicEvent) []SeismicEvent {
	out := make([]SeismicEvent, 0, notableLimit)
	for _, e := range events {
		if e.Magnitude < notableMagnitude {
			continue
		}
		out = append(out, e)
		if len(out) == notableLimit {
			break
		}
	}
	return out
}

// Summary is the statistics panel for an event set.
type Summary struct {
	Total   int            `json:"total"`
	Counts  TierCounts     `json:"counts"`
	Notable []SeismicEvent `json:"notable"`
}

// Summarize builds the statistics panel for events.
func Summarize(events []SeismicEvent) Summary {
	counts := CountTiers(events)
	return Summary{
		Total:   counts.Total(),
		Counts:  counts,
		Notable: NotableEvents(events),
	}
}
