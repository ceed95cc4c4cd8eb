// Package ioload reads the region and observation documents from disk.
// Both documents are loaded concurrently, the first failure cancels the
// other read.
package ioload

import (
	"context"
	"log/slog"
	"os"

	"github.com/gnames/nemamap/internal/iofs"
	"github.com/gnames/nemamap/pkg/config"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
)

// Data is the in-memory snapshot the pipeline works on.
type Data struct {
	// Regions are polygons in document order.
	Regions []region.Region

	// Index is the lookup index of Regions.
	Index *region.Index

	// SkippedRegions is the number of features without geometry.
	SkippedRegions int

	// Source holds observation groups.
	Source *observation.Source
}

// Load reads both documents configured in cfg.
func Load(ctx context.Context, cfg *config.Config) (*Data, error) {
	res := &Data{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		regions, skipped, err := LoadRegions(ctx, cfg.Data.RegionsPath, cfg.Data.RegionField)
		if err != nil {
			return err
		}
		res.Regions = regions
		res.SkippedRegions = skipped
		res.Index = region.NewIndex(regions, cfg.Map.CellLevel)
		return nil
	})

	g.Go(func() error {
		src, err := LoadObservations(ctx, cfg.Data.ObservationsPath)
		if err != nil {
			return err
		}
		res.Source = src
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("Data loaded",
		"regions", len(res.Regions),
		"skipped_regions", res.SkippedRegions,
		"groups", len(res.Source.Groups),
		"observations", res.Source.Len(),
	)
	return res, nil
}

// LoadRegions reads a GeoJSON FeatureCollection of region polygons.
func LoadRegions(
	ctx context.Context,
	path, field string,
) ([]region.Region, int, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, 0, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, 0, RegionDecodeError(path, err)
	}

	regions, skipped, err := region.FromFeatures(fc, field)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		slog.Warn("Features without geometry are skipped",
			"path", path, "skipped", skipped)
	}
	return regions, skipped, nil
}

// LoadObservations reads the observation document.
func LoadObservations(
	ctx context.Context,
	path string,
) (*observation.Source, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return observation.Decode(data)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadCancelledError(path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, LoadCancelledError(path, err)
	}
	return data, nil
}
