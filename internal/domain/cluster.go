package domain

// Cluster groups nearby markers in cluster view. A cluster of one is drawn
// as its single marker.
type Cluster struct {
	Center  LatLng        `json:"center"`
	Count   int           `json:"count"`
	MaxTier IntensityTier `json:"max_tier"`
	Markers []Marker      `json:"markers"`
}
