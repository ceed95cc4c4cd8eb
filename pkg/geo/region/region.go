// Package region keeps administrative boundaries (Local Government Areas)
// and answers which region contains a coordinate.
package region

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// FallbackField is tried when a feature has no configured name property.
const FallbackField = "name"

// Region is a named polygonal boundary.
type Region struct {
	// Name identifies the region in presence indices.
	Name string

	// Position is the index of the region in its collection. The first
	// region containing a point wins, so position decides ties.
	Position int

	// Geometry is either orb.Polygon or orb.MultiPolygon.
	Geometry orb.Geometry

	Bound orb.Bound
}

// New creates a region from polygonal geometry.
func New(name string, pos int, g orb.Geometry) (Region, error) {
	if g == nil {
		return Region{}, GeometryError(name, "null")
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return Region{}, GeometryError(name, g.GeoJSONType())
	}
	return Region{Name: name, Position: pos, Geometry: g, Bound: g.Bound()}, nil
}

// Contains checks if a point is inside the region. Points on the boundary
// are inside.
func (r Region) Contains(lat, lng float64) bool {
	p := orb.Point{lng, lat}
	if !r.Bound.Contains(p) {
		return false
	}
	switch g := r.Geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	}
	return false
}

// FromFeatures converts GeoJSON features to regions. The name comes from
// the field property, falling back to "name". Features without geometry
// are skipped and counted, ABS boundary files carry a few of them
// ("No usual address", "Migratory - Offshore - Shipping").
func FromFeatures(fc *geojson.FeatureCollection, field string) ([]Region, int, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, 0, EmptyError()
	}

	var skipped int
	res := make([]Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := featureName(f, field)
		if name == "" {
			return nil, 0, NameMissingError(i, field)
		}
		if f.Geometry == nil {
			skipped++
			continue
		}

		r, err := New(name, len(res), f.Geometry)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, r)
	}

	if len(res) == 0 {
		return nil, skipped, EmptyError()
	}
	return res, skipped, nil
}

func featureName(f *geojson.Feature, field string) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	for _, k := range []string{field, FallbackField} {
		if k == "" {
			continue
		}
		if s := f.Properties.MustString(k, ""); s != "" {
			return s
		}
	}
	return ""
}

// Locate is a linear scan that returns the first region containing the
// point.
func Locate(regions []Region, lat, lng float64) (Region, bool) {
	for _, r := range regions {
		if r.Contains(lat, lng) {
			return r, true
		}
	}
	return Region{}, false
}
