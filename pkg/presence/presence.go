// Package presence finds which regions have records of which nematode
// groups. The result drives choropleth shading and region tooltips.
//
// Everything here is a pure function of regions, observations and the
// active selection. Recomputing with the same inputs gives the same
// index.
package presence

import (
	"iter"
	"maps"
	"slices"

	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
)

// Locator finds the region that contains a point. The region.Index
// implements it.
type Locator interface {
	Locate(lat, lng float64) (region.Region, bool)
}

// Placement ties a placeable observation to the region that contains it.
type Placement struct {
	Position int
	Label    string
	Region   string
}

// Index maps region names to group labels found inside the region.
// Labels follow the order observations were seen in, duplicates are
// kept so the length of a list is the number of records in the region.
type Index map[string][]string

// Option changes how Locate runs.
type Option func(*settings)

type settings struct {
	progress func()
}

// OptProgress sets a function called once per observation, placeable or
// not. The CLI uses it to move a progress bar.
func OptProgress(fn func()) Option {
	return func(s *settings) {
		s.progress = fn
	}
}

// Locate places every observation with coordinates into the first region
// that contains it. Observations without coordinates or outside of all
// regions get no placement.
func Locate(
	loc Locator,
	obs iter.Seq[observation.Observation],
	opts ...Option,
) []Placement {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	var res []Placement
	for o := range obs {
		if s.progress != nil {
			s.progress()
		}
		lat, lng, ok := o.LatLng()
		if !ok {
			continue
		}
		r, ok := loc.Locate(lat, lng)
		if !ok {
			continue
		}
		res = append(res, Placement{
			Position: o.Position,
			Label:    o.Label,
			Region:   r.Name,
		})
	}
	return res
}

// Build applies a selection to placements. An empty selection gives an
// empty index.
func Build(placements []Placement, sel Selection) Index {
	res := make(Index)
	if sel.IsEmpty() {
		return res
	}
	for _, p := range placements {
		if !sel.Has(p.Label) {
			continue
		}
		res[p.Region] = append(res[p.Region], p.Label)
	}
	return res
}

// Aggregate computes the presence index for the selection.
func Aggregate(
	loc Locator,
	obs iter.Seq[observation.Observation],
	sel Selection,
) Index {
	if sel.IsEmpty() {
		return make(Index)
	}
	return Build(Locate(loc, obs), sel)
}

// Regions returns names of shaded regions in alphabetical order.
func (idx Index) Regions() []string {
	return slices.Sorted(maps.Keys(idx))
}

// Labels returns distinct labels of a region in first-seen order.
func (idx Index) Labels(region string) []string {
	var res []string
	for _, l := range idx[region] {
		if !slices.Contains(res, l) {
			res = append(res, l)
		}
	}
	return res
}

// Count returns the number of matching records in a region.
func (idx Index) Count(region string) int {
	return len(idx[region])
}

// Clone returns a deep copy of the index.
func (idx Index) Clone() Index {
	res := make(Index, len(idx))
	for k, v := range idx {
		res[k] = slices.Clone(v)
	}
	return res
}
