package domain

import (
	"fmt"
	"math"
	"time"
)

// IconStyle is a declarative marker icon descriptor. Rendering surfaces
// turn it into whatever markup they need.
type IconStyle struct {
	SizePx   int    `json:"size_px"`
	ColorKey string `json:"color_key"`
	Ring     bool   `json:"ring"`
}

type sizeBand struct {
	floor     float64
	size      int
	clustered int
}

// Size bands in descending order; the last band catches everything else.
var sizeBands = []sizeBand{
	{floor: 6, size: 40, clustered: 48},
	{floor: 5, size: 32, clustered: 40},
	{floor: 3, size: 24, clustered: 32},
	{floor: math.Inf(-1), size: 20, clustered: 24},
}

// ComputeIcon returns the marker icon for a magnitude. Clustered markers
// are drawn larger and ringed.
func ComputeIcon(mag float64, clustered bool) IconStyle {
	icon := IconStyle{ColorKey: markerColor(mag), Ring: clustered}
	for _, b := range sizeBands {
		if mag < b.floor {
			continue
		}
		icon.SizePx = b.size
		if clustered {
			icon.SizePx = b.clustered
		}
		break
	}
	return icon
}

func markerColor(mag float64) string {
	switch {
	case mag >= 6:
		return "red-600"
	case mag >= 5:
		return "red-500"
	case mag >= 4:
		return "orange-500"
	case mag >= 3:
		return "orange-400"
	default:
		return "emerald-400"
	}
}

// PopupAnchor says which side of the marker the detail popup opens on.
type PopupAnchor string

const (
	PopupTop    PopupAnchor = "top"
	PopupBottom PopupAnchor = "bottom"
)

// popupFlipRatio is the fraction of the centre-to-north distance above
// which popups open downward.
const popupFlipRatio = 0.3

// ComputePopupAnchor places the popup below markers in the upper part of
// the viewport so it is not clipped by the top edge. A marker exactly on
// the threshold keeps the popup on top.
func ComputePopupAnchor(markerLat, centerLat, northLat float64) PopupAnchor {
	threshold := centerLat + popupFlipRatio*(northLat-centerLat)
	if markerLat > threshold {
		return PopupBottom
	}
	return PopupTop
}

// CircleOverlay is the translucent radius circle drawn around strong events.
type CircleOverlay struct {
	RadiusMeters  float64 `json:"radius_meters"`
	FillOpacity   float64 `json:"fill_opacity"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	ColorKey      string  `json:"color_key"`
	FillColor     string  `json:"fill_color"`
	StrokeColor   string  `json:"stroke_color"`
}

const (
	circleMinMagnitude   = 5.0
	circleMetersPerMag   = 50000
	circleFillOpacity    = 0.1
	circleStrokeOpacity  = 0.6
	circleMajorMagnitude = 6.0
)

// ComputeCircleOverlay returns nil below magnitude 5.
func ComputeCircleOverlay(mag float64) *CircleOverlay {
	if mag < circleMinMagnitude {
		return nil
	}
	c := &CircleOverlay{
		RadiusMeters:  mag * circleMetersPerMag,
		FillOpacity:   circleFillOpacity,
		StrokeOpacity: circleStrokeOpacity,
		ColorKey:      "orange",
		FillColor:     "#f97316",
		StrokeColor:   "#ea580c",
	}
	if mag >= circleMajorMagnitude {
		c.ColorKey = "red"
		c.FillColor = "#ef4444"
		c.StrokeColor = "#dc2626"
	}
	return c
}

// Point is a screen-space pixel offset.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PopupDetails is the content of a marker popup.
type PopupDetails struct {
	Title      string        `json:"title,omitempty"`
	Place      string        `json:"place"`
	Intensity  IntensityInfo `json:"intensity"`
	Depth      string        `json:"depth"`
	OccurredAt time.Time     `json:"occurred_at"`
	Age        string        `json:"age"`
	DetailURL  string        `json:"detail_url,omitempty"`
}

// Marker is the full render descriptor for one event.
type Marker struct {
	EventID     string         `json:"event_id"`
	Position    LatLng         `json:"position"`
	Label       string         `json:"label"`
	Tier        IntensityTier  `json:"tier"`
	Icon        IconStyle      `json:"icon"`
	IconAnchor  Point          `json:"icon_anchor"`
	PopupAnchor PopupAnchor    `json:"popup_anchor"`
	PopupOffset Point          `json:"popup_offset"`
	Circle      *CircleOverlay `json:"circle,omitempty"`
	Popup       PopupDetails   `json:"popup"`
}

// StyleMarker builds the render descriptor for an event in the given viewport.
func StyleMarker(e SeismicEvent, clustered bool, vp Viewport) Marker {
	icon := ComputeIcon(e.Magnitude, clustered)
	anchor := ComputePopupAnchor(e.Coordinates.Lat, vp.Center.Lat, vp.North)

	half := icon.SizePx / 2
	offset := Point{X: 0, Y: -half}
	if anchor == PopupBottom {
		offset.Y = half
	}

	return Marker{
		EventID:     e.ID,
		Position:    e.Coordinates.Position(),
		Label:       fmt.Sprintf("%.1f", e.Magnitude),
		Tier:        e.Tier(),
		Icon:        icon,
		IconAnchor:  Point{X: half, Y: half},
		PopupAnchor: anchor,
		PopupOffset: offset,
		Circle:      ComputeCircleOverlay(e.Magnitude),
		Popup: PopupDetails{
			Title:      e.Title,
			Place:      e.Place,
			Intensity:  DescribeIntensity(e.Magnitude),
			Depth:      FormatDepth(e.Coordinates.DepthKm),
			OccurredAt: e.OccurredAt,
			Age:        TimeAgo(e.OccurredAt),
			DetailURL:  e.DetailURL,
		},
	}
}

// FormatDepth renders a depth as "12.3 km". Above-sea-level hypocentres
// (negative depth) are shown by magnitude.
func FormatDepth(depthKm float64) string {
	return fmt.Sprintf("%.1f km", math.Abs(depthKm))
}

// TimeAgo renders the coarse age of t relative to the package clock:
// minutes below an hour, hours below a day, then days.
func TimeAgo(t time.Time) string {
	minutes := int(clock.Since(t).Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	}
}
