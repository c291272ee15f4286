// Package cluster groups styled markers that sit within a pixel radius of
// each other at the current zoom.
package cluster

import (
	"cmp"
	"math"
	"slices"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
)

const (
	tileSize = 256
	// DefaultRadiusPx matches the usual marker-cluster radius on the client.
	DefaultRadiusPx = 80

	maxMercatorLat = 85.0511
)

// Radius clusters greedily: the first unassigned marker seeds a cluster
// that takes every other unassigned marker within RadiusPx world pixels.
// At DisableAtZoom and above every marker stands alone.
type Radius struct {
	RadiusPx      float64
	DisableAtZoom int
}

// New returns a Radius clusterer with the default radius that stops
// clustering at the maximum map zoom.
func New() *Radius {
	return &Radius{RadiusPx: DefaultRadiusPx, DisableAtZoom: domain.MaxZoom}
}

// projected is a marker's position in world pixels, indexed back into the
// input slice.
type projected struct {
	point orb.Point
	index int
}

func (p *projected) Point() orb.Point { return p.point }

// Cluster groups markers in first-seen order. The input slice is not modified.
func (r *Radius) Cluster(markers []domain.Marker, zoom int) []domain.Cluster {
	if len(markers) == 0 {
		return []domain.Cluster{}
	}
	zoom = domain.ClampZoom(zoom)

	if zoom >= r.DisableAtZoom {
		out := make([]domain.Cluster, len(markers))
		for i, m := range markers {
			out[i] = singleton(m)
		}
		return out
	}

	world := tileSize * math.Exp2(float64(zoom))
	tree := quadtree.New(orb.Bound{Max: orb.Point{world, world}}.Pad(r.RadiusPx))
	points := make([]*projected, len(markers))
	for i, m := range markers {
		points[i] = &projected{point: project(m.Position, zoom), index: i}
		// Projected points always fall inside the padded world bound.
		_ = tree.Add(points[i])
	}

	assigned := make([]bool, len(markers))
	var (
		out []domain.Cluster
		buf []orb.Pointer
	)
	for _, seed := range points {
		if assigned[seed.index] {
			continue
		}
		buf = tree.InBoundMatching(buf, orb.Bound{Min: seed.point, Max: seed.point}.Pad(r.RadiusPx),
			func(p orb.Pointer) bool {
				q := p.(*projected)
				return !assigned[q.index] && planar.Distance(seed.point, q.point) <= r.RadiusPx
			})
		slices.SortFunc(buf, func(a, b orb.Pointer) int {
			return cmp.Compare(a.(*projected).index, b.(*projected).index)
		})

		c := singleton(markers[seed.index])
		assigned[seed.index] = true
		for _, p := range buf {
			i := p.(*projected).index
			if assigned[i] {
				continue
			}
			assigned[i] = true
			c = merge(c, markers[i])
		}
		out = append(out, c)
	}
	return out
}

// project converts a position to Web Mercator world pixels at zoom.
func project(p domain.LatLng, zoom int) orb.Point {
	ll := orb.Point{
		math.Max(math.Min(p.Lng, 180), -180),
		math.Max(math.Min(p.Lat, maxMercatorLat), -maxMercatorLat),
	}
	f := maptile.Fraction(ll, maptile.Zoom(zoom))
	return orb.Point{f[0] * tileSize, f[1] * tileSize}
}

func singleton(m domain.Marker) domain.Cluster {
	return domain.Cluster{
		Center:  m.Position,
		Count:   1,
		MaxTier: m.Tier,
		Markers: []domain.Marker{m},
	}
}

// merge adds m to c and moves the centre to the running mean.
func merge(c domain.Cluster, m domain.Marker) domain.Cluster {
	n := float64(c.Count)
	c.Center = domain.LatLng{
		Lat: (c.Center.Lat*n + m.Position.Lat) / (n + 1),
		Lng: (c.Center.Lng*n + m.Position.Lng) / (n + 1),
	}
	c.Count++
	if m.Tier > c.MaxTier {
		c.MaxTier = m.Tier
	}
	c.Markers = append(c.Markers, m)
	return c
}
