/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"github.com/gnames/gn"
	"github.com/gnames/nemamap/internal/iopipeline"
	"github.com/spf13/cobra"
)

// getBuildCmd returns the build command.
func getBuildCmd() *cobra.Command {
	var quiet bool

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Generate map data files",
		Long: `Generate static data files for the nematode map.

This command:
  1. Reads LGA boundaries (GeoJSON) and nematode records (JSON)
  2. Finds LGAs with records of the selected groups
  3. Spreads markers that share the same coordinates
  4. Assigns a stable color to every group
  5. Parses scientific names and builds an A-Z catalogue
  6. Writes presence.json, points.json, points.csv, legend.json,
     catalog.json and stats.json to the output directory

Without --labels every group shades the map.

Examples:
  # Use files from config.yaml
  nemamap build

  # Shade only root-knot and lesion nematodes
  nemamap build -l "Root-knot nematodes,Lesion nematodes"

  # Override input and output locations
  nemamap build --regions lga.geojson --observations nema.json -o public/data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBuild(cmd, quiet)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	selectionFlags(buildCmd)
	buildCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"do not show progress bar")

	return buildCmd
}

func runBuild(cmd *cobra.Command, quiet bool) error {
	cfg.Update(selectionFlagOptions(cmd))

	runner := iopipeline.New(cfg, iopipeline.OptProgress(!quiet))
	res, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	gn.Info("Map data is ready in <em>%s</em>", cfg.Output.Dir)
	for _, f := range res.Files {
		gn.Info("  %s", f)
	}
	return nil
}
