package region

import (
	"slices"

	"github.com/golang/geo/s2"
)

// padding widens region bounds before covering them with cells, so points
// lying exactly on a bound edge still find their candidates.
var padding = s2.LatLngFromDegrees(1e-6, 1e-6)

// Index speeds up point lookups with a map from S2 cells to the regions
// whose bounds touch them. Lookups keep first-match semantics of Locate.
type Index struct {
	regions []Region
	cells   map[s2.CellID][]int
	levels  []int
	names   map[string]struct{}
}

// NewIndex creates an index of regions with cells of the given S2 level.
// A level of 0 or less gives an index that scans all regions.
func NewIndex(regions []Region, level int) *Index {
	res := &Index{
		regions: regions,
		names:   make(map[string]struct{}, len(regions)),
	}
	for _, r := range regions {
		res.names[r.Name] = struct{}{}
	}

	if level <= 0 {
		return res
	}
	level = min(level, s2.MaxLevel)

	res.cells = make(map[s2.CellID][]int)
	coverer := &s2.RegionCoverer{MinLevel: level, MaxLevel: level, MaxCells: 64}
	levels := make(map[int]struct{})
	for i, r := range regions {
		lo := s2.LatLngFromDegrees(r.Bound.Min.Lat(), r.Bound.Min.Lon())
		hi := s2.LatLngFromDegrees(r.Bound.Max.Lat(), r.Bound.Max.Lon())
		rect := s2.RectFromLatLng(s2.LatLng{
			Lat: lo.Lat - padding.Lat,
			Lng: lo.Lng - padding.Lng,
		}).AddPoint(s2.LatLng{
			Lat: hi.Lat + padding.Lat,
			Lng: hi.Lng + padding.Lng,
		})

		for _, c := range coverer.Covering(rect) {
			if c.Level() > level {
				c = c.Parent(level)
			}
			ids := res.cells[c]
			if len(ids) == 0 || ids[len(ids)-1] != i {
				res.cells[c] = append(ids, i)
			}
			levels[c.Level()] = struct{}{}
		}
	}
	for l := range levels {
		res.levels = append(res.levels, l)
	}
	slices.Sort(res.levels)
	return res
}

// Locate returns the first region, in collection order, that contains
// the point.
func (idx *Index) Locate(lat, lng float64) (Region, bool) {
	if idx.cells == nil {
		return Locate(idx.regions, lat, lng)
	}

	ll := s2.LatLngFromDegrees(lat, lng)
	if !ll.IsValid() {
		return Region{}, false
	}

	leaf := s2.CellIDFromLatLng(ll)
	var cand []int
	for _, l := range idx.levels {
		cand = append(cand, idx.cells[leaf.Parent(l)]...)
	}
	slices.Sort(cand)
	cand = slices.Compact(cand)

	for _, i := range cand {
		if idx.regions[i].Contains(lat, lng) {
			return idx.regions[i], true
		}
	}
	return Region{}, false
}

// Regions returns indexed regions in collection order.
func (idx *Index) Regions() []Region {
	return idx.regions
}

// Len returns the number of regions.
func (idx *Index) Len() int {
	return len(idx.regions)
}

// Has checks if a region name is known to the index.
func (idx *Index) Has(name string) bool {
	_, ok := idx.names[name]
	return ok
}

// Names returns distinct region names in collection order.
func (idx *Index) Names() []string {
	res := make([]string, 0, len(idx.regions))
	seen := make(map[string]struct{}, len(idx.regions))
	for _, r := range idx.regions {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		res = append(res, r.Name)
	}
	return res
}
