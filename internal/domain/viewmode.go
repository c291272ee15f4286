package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownViewMode is returned when parsing a mode outside the fixed set.
var ErrUnknownViewMode = errors.New("unknown view mode")

// ViewMode selects the rendering strategy for the filtered event set.
type ViewMode string

const (
	ViewStandard ViewMode = "standard"
	ViewCluster  ViewMode = "cluster"
	ViewHeatmap  ViewMode = "heatmap"
)

// AllViewModes lists every mode.
var AllViewModes = []ViewMode{ViewStandard, ViewCluster, ViewHeatmap}

// Valid reports whether m is one of the three modes.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewStandard, ViewCluster, ViewHeatmap:
		return true
	default:
		return false
	}
}

// ParseViewMode converts a mode name to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
	}
	return m, nil
}
