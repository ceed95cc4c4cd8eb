package cmd

import (
	"fmt"
	"os"

	nemamap "github.com/gnames/nemamap/pkg"
	"github.com/gnames/nemamap/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", nemamap.Version, nemamap.Build)
		os.Exit(0)
	}
}

// dataFlags adds persistent flags that override config.yaml for every
// subcommand.
func dataFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("regions", "", "GeoJSON file with region boundaries")
	pf.String("observations", "", "JSON file with nematode records")
	pf.String("region-field", "", "feature property with the region name")
	pf.StringP("output", "o", "", "directory for generated files")
	pf.String("metrics-file", "", "write Prometheus metrics to this file")
	pf.String("taxa-code", "", "nomenclatural code: zoological or botanical")
	pf.IntP("jobs", "j", 0, "number of parallel name parsers")
}

// selectionFlags adds flags that set the active label selection.
func selectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("labels", "l", nil,
		"shade only these group labels (comma-separated)")
	cmd.Flags().Bool("none", false, "shade no regions")
}

// dataFlagOptions converts changed persistent flags to config options.
// Flags that were not set keep values from config.yaml and env vars.
func dataFlagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()

	str := func(name string, opt func(string) config.Option) {
		if !fs.Changed(name) {
			return
		}
		if v, err := fs.GetString(name); err == nil {
			res = append(res, opt(v))
		}
	}

	str("regions", config.OptDataRegionsPath)
	str("observations", config.OptDataObservationsPath)
	str("region-field", config.OptDataRegionField)
	str("output", config.OptOutputDir)
	str("metrics-file", config.OptOutputMetricsFile)
	str("taxa-code", config.OptTaxaCode)

	if fs.Changed("jobs") {
		if v, err := fs.GetInt("jobs"); err == nil {
			res = append(res, config.OptJobsNumber(v))
		}
	}
	return res
}

// selectionFlagOptions converts selection flags to config options.
// Without flags every label is selected.
func selectionFlagOptions(cmd *cobra.Command) []config.Option {
	fs := cmd.Flags()
	if none, _ := fs.GetBool("none"); none {
		return []config.Option{config.OptSelectionLabels(nil)}
	}
	if fs.Changed("labels") {
		labels, _ := fs.GetStringSlice("labels")
		return []config.Option{config.OptSelectionLabels(labels)}
	}
	return []config.Option{config.OptSelectionAll(true)}
}
