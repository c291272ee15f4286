package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned when parsing a tier name outside the fixed set.
var ErrUnknownTier = errors.New("unknown intensity tier")

// IntensityTier is a magnitude-derived classification bucket.
type IntensityTier int

const (
	TierLow IntensityTier = iota
	TierMedium
	TierHigh
)

// Tier boundaries. Values equal to a boundary belong to the higher tier.
const (
	mediumTierFloor = 3.0
	highTierFloor   = 5.0
)

var tierNames = [...]string{"low", "medium", "high"}

// AllTiers lists the tiers in escalating order.
var AllTiers = []IntensityTier{TierLow, TierMedium, TierHigh}

func (t IntensityTier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("IntensityTier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the three tiers.
func (t IntensityTier) Valid() bool {
	return t >= TierLow && t <= TierHigh
}

// MarshalText encodes the tier by name.
func (t IntensityTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *IntensityTier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier converts a tier name ("low", "medium", "high") to an IntensityTier.
func ParseTier(s string) (IntensityTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == s {
			return IntensityTier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MagnitudeToTier maps a magnitude to exactly one tier:
//   - low: below 3.0
//   - medium: 3.0 up to but excluding 5.0
//   - high: 5.0 and above
func MagnitudeToTier(mag float64) IntensityTier {
	switch {
	case mag >= highTierFloor:
		return TierHigh
	case mag >= mediumTierFloor:
		return TierMedium
	default:
		return TierLow
	}
}

// TierAttributes holds the filter-panel presentation of a tier.
type TierAttributes struct {
	SizePx      int    `json:"size_px"`
	ColorKey    string `json:"color_key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Urgency     int    `json:"urgency"`
}

var tierAttributes = [...]TierAttributes{
	TierLow:    {SizePx: 20, ColorKey: "emerald-400", Label: "Low Magnitude", Description: "< 3.0", Urgency: 0},
	TierMedium: {SizePx: 24, ColorKey: "orange-400", Label: "Medium Magnitude", Description: "3.0 - 4.9", Urgency: 1},
	TierHigh:   {SizePx: 32, ColorKey: "red-500", Label: "High Magnitude", Description: ">= 5.0", Urgency: 2},
}

// Attributes returns the tier's visual attributes. Size and urgency never
// decrease from low to high.
func (t IntensityTier) Attributes() TierAttributes {
	if !t.Valid() {
		return TierAttributes{}
	}
	return tierAttributes[t]
}

// TierSet is an immutable set of intensity tiers.
type TierSet uint8

// AllTierSet contains every tier.
const AllTierSet TierSet = 1<<TierLow | 1<<TierMedium | 1<<TierHigh

// NewTierSet builds a set from the given tiers. Invalid tiers are dropped.
func NewTierSet(tiers ...IntensityTier) TierSet {
	var s TierSet
	for _, t := range tiers {
		s = s.With(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s TierSet) Has(t IntensityTier) bool {
	return t.Valid() && s&(1<<t) != 0
}

// With returns a copy of the set including t.
func (s TierSet) With(t IntensityTier) TierSet {
	if !t.Valid() {
		return s
	}
	return s | 1<<t
}

// Without returns a copy of the set excluding t.
func (s TierSet) Without(t IntensityTier) TierSet {
	if !t.Valid() {
		return s
	}
	return s &^ (1 << t)
}

// Toggle flips membership of t.
func (s TierSet) Toggle(t IntensityTier) TierSet {
	if s.Has(t) {
		return s.Without(t)
	}
	return s.With(t)
}

// Empty reports whether no tier is selected.
func (s TierSet) Empty() bool {
	return s&AllTierSet == 0
}

// Tiers lists the members in escalating order.
func (s TierSet) Tiers() []IntensityTier {
	out := make([]IntensityTier, 0, len(AllTiers))
	for _, t := range AllTiers {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// MarshalJSON encodes the set as a list of tier names.
func (s TierSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tiers())
}

// UnmarshalJSON decodes a list of tier names.
func (s *TierSet) UnmarshalJSON(b []byte) error {
	var tiers []IntensityTier
	if err := json.Unmarshal(b, &tiers); err != nil {
		return err
	}
	*s = NewTierSet(tiers...)
	return nil
}

// IntensityInfo is the popup wording for a magnitude.
type IntensityInfo struct {
	Level       string `json:"level"`
	Description string `json:"description"`
	ColorKey    string `json:"color_key"`
}

// DescribeIntensity returns the finer five-step popup wording, which splits
// the medium and high tiers at 4.0 and 6.0.
func DescribeIntensity(mag float64) IntensityInfo {
	switch {
	case mag >= 6:
		return IntensityInfo{Level: "Major", Description: "Significant damage possible", ColorKey: "red-600"}
	case mag >= 5:
		return IntensityInfo{Level: "Moderate", Description: "Noticeable shaking, minor damage", ColorKey: "red-500"}
	case mag >= 4:
		return IntensityInfo{Level: "Light", Description: "Often felt, rarely causes damage", ColorKey: "orange-500"}
	case mag >= 3:
		return IntensityInfo{Level: "Minor", Description: "Weak shaking, felt by few people", ColorKey: "orange-400"}
	default:
		return IntensityInfo{Level: "Micro", Description: "Generally not felt", ColorKey: "emerald-500"}
	}
}
