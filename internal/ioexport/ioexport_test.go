package ioexport_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/nemamap/internal/ioexport"
	"github.com/gnames/nemamap/pkg/catalog"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/gnames/nemamap/pkg/parserpool"
	"github.com/gnames/nemamap/pkg/pipeline"
	"github.com/gnames/nemamap/pkg/presence"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `[
  {"label": "Root-knot nematodes", "scientificTaxon": "Meloidogyne javanica",
   "latitude": -12.46, "longitude": 130.84, "sampleSize": "4-47",
   "plantAssociated": "Tomato, cherry", "samplingState": "NT"},
  {"label": "Root-knot nematodes", "latitude": -12.46, "longitude": 130.84},
  {"label": "Ring nematodes", "latitude": null, "longitude": 150}
]`

func outputs(t *testing.T) (pipeline.Outputs, *catalog.Catalog) {
	t.Helper()
	r, err := region.New("Darwin", 0, orb.Polygon{{
		{130.5, -12.75}, {131.0, -12.75}, {131.0, -12.25}, {130.5, -12.25}, {130.5, -12.75},
	}})
	require.NoError(t, err)
	src, err := observation.Decode([]byte(doc))
	require.NoError(t, err)

	out := pipeline.Recompute(pipeline.Inputs{
		Regions:   region.NewIndex([]region.Region{r}, 8),
		Source:    src,
		Selection: presence.SelectAll(),
	})

	pool := parserpool.NewPool(1, nomcode.Zoological)
	defer pool.Close()
	return out, catalog.Build(src, pool, 1)
}

func TestWrite(t *testing.T) {
	out, cat := outputs(t)
	dir := filepath.Join(t.TempDir(), "public", "data")

	exp := ioexport.New(dir, true)
	paths, err := exp.Write(out, cat)
	require.NoError(t, err)
	assert.Len(t, paths, 6)
	assert.Equal(t, dir, exp.Dir())

	var pres map[string][]string
	readJSON(t, filepath.Join(dir, ioexport.PresenceFile), &pres)
	assert.Equal(t, map[string][]string{
		"Darwin": {"Root-knot nematodes", "Root-knot nematodes"},
	}, pres)

	var points []pipeline.DisplayPoint
	readJSON(t, filepath.Join(dir, ioexport.PointsFile), &points)
	require.Len(t, points, 2)
	assert.Equal(t, out.Points, points)

	var stats pipeline.Stats
	readJSON(t, filepath.Join(dir, ioexport.StatsFile), &stats)
	assert.Equal(t, 3, stats.Observations)
	assert.Equal(t, 1, stats.Unplaceable)

	var cdoc struct {
		Records   int              `json:"records"`
		Placeable int              `json:"placeable"`
		Letters   []catalog.Letter `json:"letters"`
	}
	readJSON(t, filepath.Join(dir, ioexport.CatalogFile), &cdoc)
	assert.Equal(t, 3, cdoc.Records)
	assert.Equal(t, 2, cdoc.Placeable)
	require.Len(t, cdoc.Letters, 1)
	assert.Equal(t, "R", cdoc.Letters[0].Letter)
	assert.Len(t, cdoc.Letters[0].Entries, 2)

	csv, err := os.ReadFile(filepath.Join(dir, ioexport.PointsCSV))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "position,label,taxon,color,lat,lng"))
	assert.True(t, strings.HasPrefix(lines[1], "0,Root-knot nematodes,Meloidogyne javanica,"))
	assert.Contains(t, lines[1], `"Tomato, cherry"`)
	assert.Contains(t, lines[1], ",47,")
	assert.Contains(t, lines[1], ",-12.46,130.84,true,Darwin,")
}

func TestWriteWithoutCatalog(t *testing.T) {
	out, _ := outputs(t)
	dir := t.TempDir()

	paths, err := ioexport.New(dir, false).Write(out, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	_, err = os.Stat(filepath.Join(dir, ioexport.CatalogFile))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteError(t *testing.T) {
	out, cat := outputs(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := ioexport.New(filepath.Join(file, "out"), false).Write(out, cat)
	assert.Error(t, err)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
