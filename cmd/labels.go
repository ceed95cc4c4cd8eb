/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/nemamap/internal/iopipeline"
	"github.com/gnames/nemamap/pkg/catalog"
	"github.com/spf13/cobra"
)

// getLabelsCmd returns the labels command.
func getLabelsCmd() *cobra.Command {
	var asJSON bool

	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "List nematode groups found in observations",
		Long: `List group labels in A-Z order with record counts and colors.

Use the labels with 'nemamap build --labels'.

Examples:
  nemamap labels
  nemamap labels --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLabels(cmd, asJSON)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	labelsCmd.Flags().BoolVar(&asJSON, "json", false,
		"print the catalog as JSON")
	return labelsCmd
}

func runLabels(cmd *cobra.Command, asJSON bool) error {
	runner := iopipeline.New(cfg)
	data, err := runner.Load(cmd.Context())
	if err != nil {
		return err
	}
	cat, err := runner.Catalog(data)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		res, err := enc.Encode(cat)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(res))
		return err
	}

	for _, l := range cat.Letters() {
		fmt.Fprintf(w, "%s\n", l.Letter)
		for _, e := range l.Entries {
			fmt.Fprintln(w, formatEntry(e))
		}
	}
	records, placeable := cat.Totals()
	fmt.Fprintf(w, "\n%s records, %s with coordinates\n",
		humanize.Comma(int64(records)), humanize.Comma(int64(placeable)))
	return nil
}

func formatEntry(e catalog.Entry) string {
	return fmt.Sprintf("  %s  %-40s %6s records  %d taxa",
		e.Color, e.Label, humanize.Comma(int64(e.Records)), len(e.Taxa))
}
