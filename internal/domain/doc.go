// Package domain models USGS seismic event data and the rules that turn a
// feed snapshot into map render parameters.
//
// # Data Source
//
// Events come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson.
// The feed is fetched once per session (optionally refreshed on a schedule)
// and the whole snapshot is replaced on every fetch; events are never
// patched in place.
//
// Coordinates follow GeoJSON order:
//
//	geometry.coordinates = [longitude, latitude, depth_km]
//
// Times are Unix epoch milliseconds in properties.time.
//
// # Intensity Tiers
//
// Magnitude is bucketed into three fixed, exhaustive tiers. Boundary values
// belong to the higher tier:
//
//	low:    mag < 3.0      (includes negative micro-event magnitudes)
//	medium: 3.0 <= mag < 5.0
//	high:   mag >= 5.0
//
// Filtering only ever consults the tier set. Date and depth ranges are part
// of [FilterCriteria] but are not applied; see [ApplyFilter].
//
// # Marker Styling
//
// Icon size steps at 6, 5 and 3 with a larger variant for clustered markers:
//
//	mag >= 6: 40px (48 clustered)
//	mag >= 5: 32px (40 clustered)
//	mag >= 3: 24px (32 clustered)
//	else:     20px (24 clustered)
//
// Events at magnitude 5 and above also get a radius circle of mag*50km.
//
// Popups open below the marker when the marker sits in the top part of the
// visible map (above 30% of the centre-to-north distance) so they are not
// clipped by the map edge. See [ComputePopupAnchor].
//
// # Heatmap
//
// Heat weight is mag/10, so a 4.2 event contributes 0.42.
package domain
