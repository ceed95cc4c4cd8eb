package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/nemamap/internal/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionsDoc = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"LGA_NAME22": "Darwin"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[130.5,-12.75],[131.0,-12.75],[131.0,-12.25],[130.5,-12.25],[130.5,-12.75]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"LGA_NAME22": "Tamworth Regional"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[150.0,-31.75],[151.5,-31.75],[151.5,-30.25],[150.0,-30.25],[150.0,-31.75]]]
      }
    }
  ]
}`

const observationsDoc = `{
  "rootknot": {
    "label": "Root-knot nematodes",
    "scientificTaxa": ["Meloidogyne javanica"],
    "entries": [
      {"latitude": -12.46, "longitude": 130.84, "samplingState": "NT"},
      {"latitude": -12.46, "longitude": 130.84, "samplingState": "NT"}
    ]
  },
  "ring": {
    "label": "Ring nematodes",
    "scientificTaxa": ["Criconemoides xenoplax"],
    "entries": [
      {"latitude": -31.0, "longitude": 150.8, "samplingState": "NSW"},
      {"latitude": null, "longitude": null}
    ]
  }
}`

// testHome creates a home directory with input documents and points
// HOME to it. It returns paths of the regions and observations files.
func testHome(t *testing.T) (home, regions, observations string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)

	regions = filepath.Join(home, "lga.geojson")
	observations = filepath.Join(home, "nematodes.json")
	require.NoError(t, os.WriteFile(regions, []byte(regionsDoc), 0644))
	require.NoError(t, os.WriteFile(observations, []byte(observationsDoc), 0644))
	return home, regions, observations
}

func TestInitConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	t.Run("config file", func(t *testing.T) {
		res, err := initConfig(home)
		require.NoError(t, err)
		assert.Equal(t, "lga.geojson", res.Data.RegionsPath)
		assert.Equal(t, "LGA_NAME22", res.Data.RegionField)
		assert.Equal(t, 8, res.Map.CellLevel)
		assert.Equal(t, "zoological", res.Taxa.Code)
		assert.Equal(t, "nemamap-out", res.Output.Dir)
	})

	t.Run("env vars", func(t *testing.T) {
		t.Setenv("NEMAMAP_DATA_REGIONS", "/data/lga_2022.geojson")
		t.Setenv("NEMAMAP_OUTPUT_DIR", "public/data")
		t.Setenv("NEMAMAP_MAP_CELL_LEVEL", "10")
		t.Setenv("NEMAMAP_LOG_LEVEL", "debug")
		t.Setenv("NEMAMAP_JOBS_NUMBER", "2")

		res, err := initConfig(home)
		require.NoError(t, err)
		assert.Equal(t, "/data/lga_2022.geojson", res.Data.RegionsPath)
		assert.Equal(t, "public/data", res.Output.Dir)
		assert.Equal(t, 10, res.Map.CellLevel)
		assert.Equal(t, "debug", res.Log.Level)
		assert.Equal(t, 2, res.JobsNumber)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := initConfig(t.TempDir())
		assert.Error(t, err)
	})
}

func TestBuildCmd(t *testing.T) {
	home, regions, observations := testHome(t)
	out := filepath.Join(home, "out")

	root := getRootCmd()
	root.SetArgs([]string{
		"build", "-q",
		"--regions", regions,
		"--observations", observations,
		"-o", out,
		"-j", "2",
	})
	require.NoError(t, root.Execute())

	assert.Equal(t, out, cfg.Output.Dir)
	assert.True(t, cfg.Selection.All)

	for _, f := range []string{"presence.json", "points.json", "points.csv", "legend.json", "catalog.json", "stats.json"} {
		assert.FileExists(t, filepath.Join(out, f))
	}

	bs, err := os.ReadFile(filepath.Join(out, "presence.json"))
	require.NoError(t, err)
	var presence map[string][]string
	require.NoError(t, json.Unmarshal(bs, &presence))
	assert.Equal(t, map[string][]string{
		"Darwin":            {"Root-knot nematodes", "Root-knot nematodes"},
		"Tamworth Regional": {"Ring nematodes"},
	}, presence)
}

func TestPresenceCmd(t *testing.T) {
	_, regions, observations := testHome(t)

	tests := []struct {
		msg  string
		args []string
		res  map[string][]string
	}{
		{"all", nil, map[string][]string{
			"Darwin":            {"Root-knot nematodes", "Root-knot nematodes"},
			"Tamworth Regional": {"Ring nematodes"},
		}},
		{"labels", []string{"-l", "Ring nematodes"}, map[string][]string{
			"Tamworth Regional": {"Ring nematodes"},
		}},
		{"none", []string{"--none"}, map[string][]string{}},
	}

	for _, v := range tests {
		buf := new(bytes.Buffer)
		root := getRootCmd()
		root.SetOut(buf)
		args := []string{
			"presence",
			"--regions", regions,
			"--observations", observations,
		}
		root.SetArgs(append(args, v.args...))
		require.NoError(t, root.Execute(), v.msg)

		var res map[string][]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &res), v.msg)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestLabelsCmd(t *testing.T) {
	_, regions, observations := testHome(t)

	buf := new(bytes.Buffer)
	root := getRootCmd()
	root.SetOut(buf)
	root.SetArgs([]string{
		"labels",
		"--regions", regions,
		"--observations", observations,
	})
	require.NoError(t, root.Execute())

	res := buf.String()
	assert.Contains(t, res, "R\n")
	assert.Contains(t, res, "Ring nematodes")
	assert.Contains(t, res, "Root-knot nematodes")
	assert.Contains(t, res, "4 records, 3 with coordinates")
}

func TestBuildCmdMissingInput(t *testing.T) {
	home, regions, _ := testHome(t)

	root := getRootCmd()
	root.SetArgs([]string{
		"build", "-q",
		"--regions", regions,
		"--observations", filepath.Join(home, "nope.json"),
		"-o", filepath.Join(home, "out"),
	})
	assert.Error(t, root.Execute())
}
