package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMapStyle is returned for style keys outside the fixed table.
var ErrUnknownMapStyle = errors.New("unknown map style")

// MapStyleID names one of the tile styles.
type MapStyleID string

const (
	StyleTerrain   MapStyleID = "terrain"
	StyleSatellite MapStyleID = "satellite"
	StyleDark      MapStyleID = "dark"
	StyleLight     MapStyleID = "light"
)

// AllMapStyleIDs lists the styles in menu order.
var AllMapStyleIDs = []MapStyleID{StyleSatellite, StyleDark, StyleLight, StyleTerrain}

// DefaultMapStyleID is the style shown on first load.
const DefaultMapStyleID = StyleSatellite

// ParseMapStyleID converts a style key to a MapStyleID.
func ParseMapStyleID(s string) (MapStyleID, error) {
	id := MapStyleID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMapStyleIDs {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMapStyle, s)
}

// MapStyle is a tile layer configuration. It has no effect on data.
type MapStyle struct {
	ID              MapStyleID `json:"id"`
	TileURLTemplate string     `json:"tile_url_template"`
	Attribution     string     `json:"attribution"`
}

// DefaultMapStyles returns the built-in tile providers.
func DefaultMapStyles() map[MapStyleID]MapStyle {
	return map[MapStyleID]MapStyle{
		StyleSatellite: {
			ID:              StyleSatellite,
			TileURLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution:     "Tiles &copy; Esri",
		},
		StyleDark: {
			ID:              StyleDark,
			TileURLTemplate: "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
			Attribution:     "&copy; OpenStreetMap, &copy; CARTO",
		},
		StyleLight: {
			ID:              StyleLight,
			TileURLTemplate: "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution:     "&copy; OpenStreetMap, &copy; CARTO",
		},
		StyleTerrain: {
			ID:              StyleTerrain,
			TileURLTemplate: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
			Attribution:     "&copy; OpenStreetMap, SRTM | &copy; OpenTopoMap",
		},
	}
}

// MapStyleTable is a validated, read-only style lookup.
type MapStyleTable struct {
	styles map[MapStyleID]MapStyle
}

// NewMapStyleTable validates that styles holds exactly the four known keys,
// each with a tile URL template.
func NewMapStyleTable(styles map[MapStyleID]MapStyle) (*MapStyleTable, error) {
	table := make(map[MapStyleID]MapStyle, len(AllMapStyleIDs))
	for id, style := range styles {
		if _, err := ParseMapStyleID(string(id)); err != nil {
			return nil, err
		}
		if strings.TrimSpace(style.TileURLTemplate) == "" {
			return nil, fmt.Errorf("map style %q: empty tile url template", id)
		}
		style.ID = id
		table[id] = style
	}
	for _, id := range AllMapStyleIDs {
		if _, ok := table[id]; !ok {
			return nil, fmt.Errorf("map style %q: missing", id)
		}
	}
	return &MapStyleTable{styles: table}, nil
}

// Lookup returns the style for id.
func (t *MapStyleTable) Lookup(id MapStyleID) (MapStyle, error) {
	style, ok := t.styles[id]
	if !ok {
		return MapStyle{}, fmt.Errorf("%w: %q", ErrUnknownMapStyle, id)
	}
	return style, nil
}

// List returns all styles in menu order.
func (t *MapStyleTable) List() []MapStyle {
	out := make([]MapStyle, 0, len(AllMapStyleIDs))
	for _, id := range AllMapStyleIDs {
		out = append(out, t.styles[id])
	}
	return out
}
