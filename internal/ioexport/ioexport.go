// Package ioexport writes pipeline outputs as static files for the map
// website.
package ioexport

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/nemamap/internal/iofs"
	"github.com/gnames/nemamap/pkg/catalog"
	"github.com/gnames/nemamap/pkg/pipeline"
)

// Names of generated files.
const (
	PresenceFile = "presence.json"
	PointsFile   = "points.json"
	PointsCSV    = "points.csv"
	LegendFile   = "legend.json"
	CatalogFile  = "catalog.json"
	StatsFile    = "stats.json"
)

// csvHeader are the columns of PointsCSV.
var csvHeader = []string{
	"position", "label", "taxon", "color", "lat", "lng",
	"orig_lat", "orig_lng", "displaced", "region",
	"sampling_region", "sampling_state", "site_description",
	"plant_associated", "sample_size", "reference", "material",
	"collected_by", "sampling_date",
}

// Exporter writes files into one directory.
type Exporter struct {
	dir string
	enc gnfmt.GNjson
}

// New creates an Exporter for dir. With pretty JSON is indented.
func New(dir string, pretty bool) *Exporter {
	return &Exporter{dir: dir, enc: gnfmt.GNjson{Pretty: pretty}}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

type doc struct {
	name string
	val  any
}

// catalogDoc is the layout of CatalogFile.
type catalogDoc struct {
	Records   int              `json:"records"`
	Placeable int              `json:"placeable"`
	Letters   []catalog.Letter `json:"letters"`
}

// Write saves outputs and the catalog. It returns paths of written files.
// A nil catalog is not written.
func (e *Exporter) Write(
	out pipeline.Outputs,
	cat *catalog.Catalog,
) ([]string, error) {
	var res []string

	docs := []doc{
		{PresenceFile, out.Presence},
		{PointsFile, out.Points},
		{LegendFile, out.Legend},
		{StatsFile, out.Stats},
	}
	if cat != nil {
		records, placeable := cat.Totals()
		docs = append(docs, doc{
			CatalogFile, catalogDoc{records, placeable, cat.Letters()},
		})
	}

	for _, d := range docs {
		path, err := e.writeJSON(d.name, d.val)
		if err != nil {
			return res, err
		}
		res = append(res, path)
	}

	path, err := e.writeCSV(out.Points)
	if err != nil {
		return res, err
	}
	res = append(res, path)

	slog.Info("Output files written", "dir", e.dir, "files", len(res))
	return res, nil
}

func (e *Exporter) writeJSON(name string, val any) (string, error) {
	path := filepath.Join(e.dir, name)
	data, err := e.enc.Encode(val)
	if err != nil {
		return "", EncodeError(name, err)
	}
	if err = iofs.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) writeCSV(points []pipeline.DisplayPoint) (string, error) {
	path := filepath.Join(e.dir, PointsCSV)

	var sb strings.Builder
	sb.WriteString(gnfmt.ToCSV(csvHeader, ','))
	sb.WriteByte('\n')
	for _, p := range points {
		sb.WriteString(gnfmt.ToCSV(csvRecord(p), ','))
		sb.WriteByte('\n')
	}

	if err := iofs.WriteFile(path, []byte(sb.String())); err != nil {
		return "", err
	}
	return path, nil
}

func csvRecord(p pipeline.DisplayPoint) []string {
	f := func(x float64) string {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	var size string
	if p.SampleSize != nil {
		size = strconv.Itoa(*p.SampleSize)
	}
	return []string{
		strconv.Itoa(p.Position), p.Label, p.Taxon, p.Color,
		f(p.Lat), f(p.Lng), f(p.OrigLat), f(p.OrigLng),
		strconv.FormatBool(p.Displaced), p.Region,
		p.SamplingRegion, p.SamplingState, p.SiteDescription,
		p.PlantAssociated, size, p.Reference, p.Material,
		p.CollectedBy, p.SamplingDate,
	}
}
