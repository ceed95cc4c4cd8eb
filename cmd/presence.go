/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/nemamap/internal/iopipeline"
	"github.com/spf13/cobra"
)

// getPresenceCmd returns the presence command.
func getPresenceCmd() *cobra.Command {
	presenceCmd := &cobra.Command{
		Use:   "presence",
		Short: "Print which regions have records of selected groups",
		Long: `Print the presence index as JSON to STDOUT.

Keys are region names, values are group labels of records found in the
region. A label repeats once per record. No files are written.

Examples:
  nemamap presence
  nemamap presence -l "Ring nematodes"
  nemamap presence --none`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPresence(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	selectionFlags(presenceCmd)
	return presenceCmd
}

func runPresence(cmd *cobra.Command) error {
	cfg.Update(selectionFlagOptions(cmd))

	runner := iopipeline.New(cfg)
	data, err := runner.Load(cmd.Context())
	if err != nil {
		return err
	}
	out := runner.Compute(data)

	enc := gnfmt.GNjson{Pretty: true}
	res, err := enc.Encode(out.Presence)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res))
	return err
}
