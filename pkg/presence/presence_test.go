package presence_test

import (
	"testing"

	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/gnames/nemamap/pkg/presence"
	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lng, lat, half float64) orb.Polygon {
	return orb.Polygon{{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
		{lng - half, lat - half},
	}}
}

func regions(t *testing.T) *region.Index {
	t.Helper()
	var res []region.Region
	add := func(name string, g orb.Geometry) {
		r, err := region.New(name, len(res), g)
		require.NoError(t, err)
		res = append(res, r)
	}
	add("Darwin", square(130.75, -12.5, 0.25))
	add("Palmerston", square(131.0, -12.5, 0.25))
	add("Tamworth", square(150.75, -31.0, 0.75))
	return region.NewIndex(res, 8)
}

type rec struct {
	label    string
	lat, lng *float64
}

func ptr(f float64) *float64 { return &f }

func source(t *testing.T, recs ...rec) *observation.Source {
	t.Helper()
	var entries []observation.Entry
	for _, r := range recs {
		e := observation.Entry{Label: r.label}
		if r.lat != nil {
			e.Latitude = observation.NewCoordinate(*r.lat)
		}
		if r.lng != nil {
			e.Longitude = observation.NewCoordinate(*r.lng)
		}
		entries = append(entries, e)
	}
	src, err := observation.FromEntries(entries)
	require.NoError(t, err)
	return src
}

func TestAggregateDarwin(t *testing.T) {
	var rs []region.Region
	r, err := region.New("Darwin", 0, square(130.75, -12.5, 0.25))
	require.NoError(t, err)
	rs = append(rs, r)
	idx := region.NewIndex(rs, 8)

	src := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", ptr(-30), ptr(150)},
	)

	res := presence.Aggregate(idx, src.Observations(), presence.SelectAll())
	assert.Equal(t,
		presence.Index{"Darwin": {"Root-knot nematodes"}},
		res,
	)
}

func TestAggregateSelectionModes(t *testing.T) {
	idx := regions(t)
	src := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", ptr(-12.40), ptr(130.60)},
		rec{"Root-knot nematodes", ptr(-31.0), ptr(150.8)},
		rec{"Ring nematodes", ptr(-12.50), ptr(131.1)},
		rec{"Root-knot nematodes", ptr(-12.30), ptr(130.70)},
	)

	tests := []struct {
		msg string
		sel presence.Selection
		res presence.Index
	}{
		{
			msg: "empty selection",
			sel: presence.SelectNone(),
			res: presence.Index{},
		},
		{
			msg: "explicit empty list",
			sel: presence.Select(),
			res: presence.Index{},
		},
		{
			msg: "all",
			sel: presence.SelectAll(),
			res: presence.Index{
				// duplicates preserved, flattened group order
				"Darwin": {
					"Root-knot nematodes", "Root-knot nematodes", "Ring nematodes",
				},
				"Tamworth":   {"Root-knot nematodes"},
				"Palmerston": {"Ring nematodes"},
			},
		},
		{
			msg: "one label",
			sel: presence.Select("Root-knot nematodes"),
			res: presence.Index{
				"Darwin":   {"Root-knot nematodes", "Root-knot nematodes"},
				"Tamworth": {"Root-knot nematodes"},
			},
		},
		{
			msg: "unknown label",
			sel: presence.Select("Stubby-root nematodes"),
			res: presence.Index{},
		},
	}

	for _, v := range tests {
		res := presence.Aggregate(idx, src.Observations(), v.sel)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestAggregateExcludesMissingCoordinates(t *testing.T) {
	idx := regions(t)
	src := source(t,
		rec{"Root-knot nematodes", nil, ptr(130.84)},
		rec{"Ring nematodes", ptr(-12.46), nil},
		rec{"Spiral nematodes", nil, nil},
		rec{"Lesion nematodes", ptr(-12.46), ptr(130.84)},
	)

	res := presence.Aggregate(idx, src.Observations(), presence.SelectAll())
	assert.Equal(t, presence.Index{"Darwin": {"Lesion nematodes"}}, res)

	placements := presence.Locate(idx, src.Observations())
	require.Len(t, placements, 1)
	assert.Equal(t, 3, placements[0].Position)
}

func TestAggregateFirstMatchWins(t *testing.T) {
	idx := regions(t)
	// inside both Darwin and Palmerston squares
	src := source(t, rec{"Ring nematodes", ptr(-12.5), ptr(130.9)})

	res := presence.Aggregate(idx, src.Observations(), presence.SelectAll())
	assert.Equal(t, presence.Index{"Darwin": {"Ring nematodes"}}, res)
}

func TestAggregateDeterministic(t *testing.T) {
	idx := regions(t)
	var recs []rec
	labels := []string{"Root-knot nematodes", "Ring nematodes", "Lesion nematodes"}
	for i := range 300 {
		lat := -12.7 + float64(i%50)*0.01
		lng := 130.55 + float64(i%70)*0.01
		recs = append(recs, rec{labels[i%3], ptr(lat), ptr(lng)})
	}
	src := source(t, recs...)

	first := presence.Aggregate(idx, src.Observations(), presence.SelectAll())
	for range 5 {
		again := presence.Aggregate(idx, src.Observations(), presence.SelectAll())
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("aggregate is not deterministic (-first +again):\n%s", diff)
		}
	}

	// every key is a known region
	for _, name := range first.Regions() {
		assert.True(t, idx.Has(name), name)
	}
}

func TestIndexHelpers(t *testing.T) {
	idx := presence.Index{
		"Tamworth": {"Ring nematodes"},
		"Darwin":   {"Root-knot nematodes", "Ring nematodes", "Root-knot nematodes"},
	}

	assert.Equal(t, []string{"Darwin", "Tamworth"}, idx.Regions())
	assert.Equal(t,
		[]string{"Root-knot nematodes", "Ring nematodes"},
		idx.Labels("Darwin"),
	)
	assert.Equal(t, 3, idx.Count("Darwin"))
	assert.Equal(t, 0, idx.Count("Hobart"))
	assert.Nil(t, idx.Labels("Hobart"))

	clone := idx.Clone()
	clone["Darwin"][0] = "changed"
	assert.Equal(t, "Root-knot nematodes", idx["Darwin"][0])
}

func TestOptProgress(t *testing.T) {
	idx := regions(t)
	src := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", nil, nil},
		rec{"Ring nematodes", ptr(-40), ptr(100)},
	)

	var calls int
	placements := presence.Locate(idx, src.Observations(),
		presence.OptProgress(func() { calls++ }),
	)
	assert.Equal(t, 3, calls)
	assert.Len(t, placements, 1)
}
