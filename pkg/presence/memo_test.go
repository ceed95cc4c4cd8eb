package presence_test

import (
	"testing"

	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/gnames/nemamap/pkg/presence"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	t.Run("modes", func(t *testing.T) {
		none := presence.SelectNone()
		assert.True(t, none.IsEmpty())
		assert.False(t, none.All())
		assert.False(t, none.Has("Ring nematodes"))

		all := presence.SelectAll()
		assert.False(t, all.IsEmpty())
		assert.True(t, all.All())
		assert.True(t, all.Has("anything"))
		assert.Empty(t, all.Labels())

		some := presence.Select("Ring nematodes", " ", "Ring nematodes", "Pin nematodes")
		assert.False(t, some.IsEmpty())
		assert.Equal(t, []string{"Ring nematodes", "Pin nematodes"}, some.Labels())
		assert.True(t, some.Has("Pin nematodes"))
		assert.False(t, some.Has("Root-knot nematodes"))
	})

	t.Run("keys ignore order", func(t *testing.T) {
		a := presence.Select("Ring nematodes", "Pin nematodes")
		b := presence.Select("Pin nematodes", "Ring nematodes")
		assert.Equal(t, a.Key(), b.Key())
		assert.Equal(t, a.ID(), b.ID())
		assert.NotEqual(t, a.ID(), presence.SelectAll().ID())
		assert.NotEqual(t, presence.SelectNone().ID(), presence.SelectAll().ID())
	})
}

func TestFingerprint(t *testing.T) {
	idx := regions(t)
	src := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", nil, nil},
	)
	other := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.85)},
		rec{"Ring nematodes", nil, nil},
	)

	fp1 := presence.Fingerprint(idx.Regions(), src.Observations())
	fp2 := presence.Fingerprint(idx.Regions(), src.Observations())
	fp3 := presence.Fingerprint(idx.Regions(), other.Observations())
	fp4 := presence.Fingerprint(idx.Regions()[:1], src.Observations())

	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
	assert.NotEqual(t, fp1, fp4)

	// descriptive attributes are part of the dataset
	attr := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", nil, nil},
	)
	attr.Groups[0].Entries[0].PlantAssociated = "Tomato"
	assert.NotEqual(t, fp1, presence.Fingerprint(idx.Regions(), attr.Observations()))

	// same bounds, different shape
	rs := idx.Regions()
	tri, err := region.New(rs[0].Name, 0, orb.Polygon{{
		{rs[0].Bound.Min.Lon(), rs[0].Bound.Min.Lat()},
		{rs[0].Bound.Max.Lon(), rs[0].Bound.Min.Lat()},
		{rs[0].Bound.Min.Lon(), rs[0].Bound.Max.Lat()},
		{rs[0].Bound.Min.Lon(), rs[0].Bound.Min.Lat()},
	}})
	require.NoError(t, err)
	require.Equal(t, rs[0].Bound, tri.Bound)
	shaped := append([]region.Region{tri}, rs[1:]...)
	assert.NotEqual(t, fp1, presence.Fingerprint(shaped, src.Observations()))
}

func TestMemo(t *testing.T) {
	idx := regions(t)
	src := source(t,
		rec{"Root-knot nematodes", ptr(-12.46), ptr(130.84)},
		rec{"Ring nematodes", ptr(-31.0), ptr(150.8)},
		rec{"Ring nematodes", nil, nil},
	)

	var located int
	fp := presence.Fingerprint(idx.Regions(), src.Observations())
	memo := presence.NewMemo(fp, idx, src.Observations(),
		presence.OptProgress(func() { located++ }),
	)
	assert.Equal(t, fp, memo.Fingerprint())
	assert.Equal(t, 0, memo.Len())

	all := memo.Index(presence.SelectAll())
	assert.Equal(t, presence.Aggregate(idx, src.Observations(), presence.SelectAll()), all)
	assert.Equal(t, 3, located)

	ring := memo.Index(presence.Select("Ring nematodes"))
	assert.Equal(t, presence.Index{"Tamworth": {"Ring nematodes"}}, ring)
	// placements are computed only once
	assert.Equal(t, 3, located)

	none := memo.Index(presence.SelectNone())
	assert.Empty(t, none)
	assert.Equal(t, 3, memo.Len())

	// cached entries are reused and protected from callers
	all["Darwin"] = nil
	again := memo.Index(presence.SelectAll())
	assert.Equal(t, []string{"Root-knot nematodes"}, again["Darwin"])
	assert.Equal(t, 3, memo.Len())

	keys := memo.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, memo.Key(presence.SelectAll()), keys[0])
	assert.Equal(t, memo.Key(presence.SelectNone()), keys[2])

	assert.Len(t, memo.Placements(), 2)
}
